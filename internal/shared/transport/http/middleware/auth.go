package middleware

import (
	"Aethelgard/internal/shared/security"
	"Aethelgard/internal/shared/transport"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CtxKeyUID gin 上下文中当前登录玩家 uid 的键。
const CtxKeyUID = "uid"

// Auth 校验 Authorization: Bearer <jwt>，并把 uid 写入请求上下文。
// 校验失败直接拒绝，不会进入业务 handler（fail closed）。
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		if !strings.HasPrefix(raw, "Bearer ") {
			reject(c)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
		if token == "" {
			reject(c)
			return
		}

		_, claims, err := security.ParseToken(token)
		if err != nil || claims == nil || claims.Uid == 0 {
			reject(c)
			return
		}
		c.Set(CtxKeyUID, claims.Uid)
		c.Next()
	}
}

// UID 读取 Auth 中间件写入的玩家 uid。
func UID(c *gin.Context) (int, bool) {
	v, ok := c.Get(CtxKeyUID)
	if !ok {
		return 0, false
	}
	uid, ok := v.(int)
	return uid, ok && uid != 0
}

func reject(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusOK, gin.H{
		"code": transport.Unauthorized,
		"msg":  "未登录或登录已过期",
	})
}
