package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// NormalizeTimestamp 把历史数据里的各种时间表示规约成 time.Time（UTC）：
//   - time.Time 原样返回
//   - RFC3339 / RFC3339Nano 字符串
//   - unix 毫秒数值（int64 / float64 / json.Number）
//   - {seconds, nanoseconds} 文档（旧版 SDK 导出的格式）
//
// 不同表示之间绝不直接比较，一律先经过这里。
// 解析失败返回错误，调用方必须把对应条目当作未完成处理。
func NormalizeTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, ErrMalformedTimestamp.WithData("raw", "<nil>")
	case time.Time:
		return t.UTC(), nil
	case string:
		if ts, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return ts.UTC(), nil
		}
		if ts, err := time.Parse(time.RFC3339, t); err == nil {
			return ts.UTC(), nil
		}
		return time.Time{}, ErrMalformedTimestamp.WithData("raw", t)
	case int64:
		return time.UnixMilli(t).UTC(), nil
	case int:
		return time.UnixMilli(int64(t)).UTC(), nil
	case float64:
		return time.UnixMilli(int64(t)).UTC(), nil
	case json.Number:
		ms, err := t.Int64()
		if err != nil {
			return time.Time{}, ErrMalformedTimestamp.WithData("raw", t.String()).WithCause(err)
		}
		return time.UnixMilli(ms).UTC(), nil
	case map[string]any:
		return normalizeSecondsDoc(t)
	}
	return time.Time{}, ErrMalformedTimestamp.WithData("raw_type", fmt.Sprintf("%T", v))
}

func normalizeSecondsDoc(doc map[string]any) (time.Time, error) {
	sec, okSec := toInt64(doc["seconds"])
	if !okSec {
		// 兼容缩写字段名
		sec, okSec = toInt64(doc["_seconds"])
	}
	if !okSec {
		return time.Time{}, ErrMalformedTimestamp.WithData("raw", doc)
	}
	nsec, okN := toInt64(doc["nanoseconds"])
	if !okN {
		nsec, _ = toInt64(doc["_nanoseconds"])
	}
	return time.Unix(sec, nsec).UTC(), nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}
