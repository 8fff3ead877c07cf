package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// Password 计算密码摘要：sha256(明文 + passcode) 十六进制。
// passcode 为每个账号独立生成的盐，存储层只保存摘要。
func Password(plaintext, passcode string) string {
	sum := sha256.Sum256([]byte(plaintext + passcode))
	return hex.EncodeToString(sum[:])
}
