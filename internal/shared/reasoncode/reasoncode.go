package reasoncode

// 跨服务共享的业务 reason 常量（协议的一部分，只增不改）。
// gate 依赖这些常量做 client_code 映射，避免直接依赖业务包。
const (
	AccountLoginInvalidCredentials = "ACCOUNT_LOGIN_INVALID_CREDENTIALS"
	AccountRegisterUserExist       = "ACCOUNT_REGISTER_USER_EXIST"
)
