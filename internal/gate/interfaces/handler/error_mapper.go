package handler

import (
	"Aethelgard/internal/shared/transport"
	"Aethelgard/modules/kit/errx"
	"context"
	"errors"
)

// mapBizCodeToClientCode 把服务层业务错误码翻译为客户端可见的业务码。
// 未列出的业务码一律按系统错误兜底，避免泄露内部语义。
func mapBizCodeToClientCode(code errx.Code) (int, bool) {
	switch code {
	case "CITY_NOT_FOUND", "TILE_NOT_FOUND", "MISSION_NOT_FOUND":
		return transport.NotFound, true
	case "QUEUE_BUSY":
		return transport.QueueBusy, true
	case "RESOURCE_NOT_ENOUGH":
		return transport.ResourceNotEnough, true
	case "UNIT_NOT_ENOUGH":
		return transport.UnitNotEnough, true
	case "INVALID_TARGET":
		return transport.InvalidTarget, true
	case "TRANSPORT_CAPACITY_EXCEEDED":
		return transport.CapacityExceeded, true
	case "NO_ARMY_SPEED":
		return transport.NoArmySpeed, true
	case "BAD_PAYLOAD", "BAD_AMOUNT", "UNKNOWN_KIND", "MAX_LEVEL":
		return transport.InvalidParam, true
	case "AUTH_INVALID_CREDENTIAL":
		return transport.PwdIncorrect, true
	case "ACCOUNT_USER_EXIST":
		return transport.UserExist, true
	default:
		return 0, false
	}
}

func mapTechCodeToClientCode(code errx.Code) int {
	switch code {
	case errx.CodeConflict:
		return transport.TxConflict
	case errx.CodeUnavailable:
		return transport.UpstreamUnavailable
	case errx.CodeTimeout:
		return transport.UpstreamTimeout
	case errx.CodeReqParamError:
		return transport.InvalidParam
	default:
		return transport.SystemError
	}
}

// HandleError 统一处理服务层错误：写 access 日志 reason，并翻译成客户端码与提示语。
// 业务拒绝透出服务侧 msg；技术错误只返回统一话术，细节留在服务端日志里。
func HandleError(ctx context.Context, err error) (int, string) {
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

	if code, ok := mapBizCodeToClientCode(e.Code()); ok {
		return code, e.Msg()
	}
	return mapTechCodeToClientCode(e.Code()), "系统繁忙，请稍后重试"
}
