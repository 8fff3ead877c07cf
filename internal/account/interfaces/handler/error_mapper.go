package handler

import (
	"Aethelgard/internal/account/app"
	"Aethelgard/internal/shared/transport"
	"Aethelgard/modules/kit/errx"
	"context"
	"errors"
)

// toClientCode 把账号服务的错误翻译为客户端业务码与提示语。
// 业务拒绝透出服务侧 msg；技术错误只返回统一话术。
func toClientCode(ctx context.Context, err error) (int, string) {
	var e *errx.Error
	if !errors.As(err, &e) {
		transport.SetErrorReason(ctx, "UNKNOWN_ERROR")
		return transport.SystemError, "系统繁忙，请稍后重试"
	}

	reason := e.Reason()
	if reason == "" {
		reason = string(e.Code())
	}
	transport.SetErrorReason(ctx, reason)

	switch e.Code() {
	case app.CodeInvalidCredentials:
		return transport.PwdIncorrect, e.Msg()
	case app.CodeUserExist:
		return transport.UserExist, e.Msg()
	case errx.CodeReqParamError:
		return transport.InvalidParam, "请求参数错误"
	case errx.CodeUnavailable:
		return transport.UpstreamUnavailable, "系统繁忙，请稍后重试"
	case errx.CodeTimeout:
		return transport.UpstreamTimeout, "系统繁忙，请稍后重试"
	default:
		return transport.SystemError, "系统繁忙，请稍后重试"
	}
}
