package config

import (
	"os"
	"path/filepath"
)

// Load 将配置文件加载到 out（yml/json 均可，由扩展名决定）。
//
// 约定：
// 1) 传入绝对路径则直接使用；
// 2) 相对路径则从当前目录开始向上逐级查找（方便 go test 在子目录执行）。
func Load(path string, out any) {
	if filepath.IsAbs(path) {
		load(path, out)
		return
	}

	curDir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	load(findUpward(curDir, path), out)
}

func findUpward(startDir, relPath string) string {
	dir := startDir
	for {
		candidate := filepath.Join(dir, relPath)
		if fileExist(candidate) {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("config file not exist, searched " + relPath + " from: " + startDir)
		}
		dir = parent
	}
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
