package dto

type CityGetReq struct {
	CityID string `json:"city_id"`
}

type ChunkReq struct {
	X int `json:"x"`
	Y int `json:"y"`
}
