package dto

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Ip       string `json:"ip"`
	Hardware string `json:"hardware"`
}

type LoginResp struct {
	Username string `json:"username"`
	Session  string `json:"session"` // token
	UId      int    `json:"uid"`
}

type RegisterReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	CityName string `json:"city_name"`
	Hardware string `json:"hardware"`
}

type RegisterResp struct {
	UId    int    `json:"uid"`
	CityId string `json:"city_id"`
}
