package handler

// ContributeRequest 贡献请求
type ContributeRequest struct {
	Address string `json:"address" binding:"required"`
	Amount  int64  `json:"amount" binding:"required,min=1"`
}

// ActorRequest 只携带调用者地址的请求
type ActorRequest struct {
	Address string `json:"address" binding:"required"`
}

// ExtendDeadlineRequest 延长截止时间请求
type ExtendDeadlineRequest struct {
	Address    string `json:"address" binding:"required"`
	NewEndTime int64  `json:"new_end_time" binding:"required"` // Unix秒
}

// InitiateVoteRequest 发起投票请求
type InitiateVoteRequest struct {
	Initiator string `json:"initiator" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

// CastVoteRequest 投票请求
type CastVoteRequest struct {
	Voter   string `json:"voter" binding:"required"`
	Choice  string `json:"choice" binding:"required"`
	Comment string `json:"comment"`
}
