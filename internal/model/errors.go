package model

// ErrorKind 错误分类
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"    // 输入校验失败
	KindState         ErrorKind = "state"         // 当前状态不允许此操作
	KindAuthorization ErrorKind = "authorization" // 调用者无权限
	KindAlreadyDone   ErrorKind = "already_done"  // 重复操作（幂等保护）
	KindCapacity      ErrorKind = "capacity"      // 容量已满
	KindExternal      ErrorKind = "external"      // 外部调用失败，已回滚
	KindNotFound      ErrorKind = "not_found"     // 记录不存在
)

// DomainError 业务错误，携带稳定的错误分类
type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewError 创建业务错误
func NewError(kind ErrorKind, message string) *DomainError {
	return &DomainError{Kind: kind, Message: message}
}

// 校验类错误
var (
	ErrInvalidAmount     = NewError(KindValidation, "金额必须大于0")
	ErrInvalidGoal       = NewError(KindValidation, "目标金额不合法")
	ErrInvalidDuration   = NewError(KindValidation, "活动时长不合法")
	ErrInvalidTierTable  = NewError(KindValidation, "档位表不合法")
	ErrInvalidPercentage = NewError(KindValidation, "百分比参数超出允许范围")
	ErrBelowMinimum      = NewError(KindValidation, "贡献金额低于最小限制")
	ErrEmptyReason       = NewError(KindValidation, "发起理由不能为空")
	ErrInvalidChoice     = NewError(KindValidation, "投票选项不合法")
	ErrEmptyAddress      = NewError(KindValidation, "地址不能为空")
	ErrNotLater          = NewError(KindValidation, "新截止时间必须晚于当前截止时间")
	ErrExceedsLimit      = NewError(KindValidation, "单次延长不能超过30天")
	ErrNoLaunchConfig    = NewError(KindValidation, "活动未配置流动性发射参数")
)

// 状态类错误
var (
	ErrWrongState          = NewError(KindState, "当前状态不允许此操作")
	ErrRefundsNotAvailable = NewError(KindState, "当前状态不支持退款")
	ErrNoContribution      = NewError(KindState, "没有可用的贡献记录")
	ErrNoFunds             = NewError(KindState, "没有可提取的资金")
	ErrVoteNotActive       = NewError(KindState, "投票不在进行中")
	ErrVoteInProgress      = NewError(KindState, "已存在进行中的投票")
	ErrVotingNotEnded      = NewError(KindState, "投票窗口尚未结束")
	ErrVotingClosed        = NewError(KindState, "投票窗口已关闭")
	ErrReentrantCall       = NewError(KindState, "同一活动的操作正在执行中")
)

// 权限类错误
var (
	ErrNotCreator        = NewError(KindAuthorization, "只有创建者可以执行此操作")
	ErrNotAuthorized     = NewError(KindAuthorization, "调用者没有权限")
	ErrCreatorContribute = NewError(KindAuthorization, "创建者不能参与自己的活动")
	ErrNoVotingPower     = NewError(KindAuthorization, "没有投票权重")
)

// 幂等类错误
var (
	ErrAlreadyClaimed   = NewError(KindAlreadyDone, "奖励代币已领取")
	ErrAlreadyWithdrawn = NewError(KindAlreadyDone, "资金已提取")
	ErrAlreadyVoted     = NewError(KindAlreadyDone, "已对该投票投过票")
)

// 容量类错误
var (
	ErrHardCapExceeded = NewError(KindCapacity, "超过活动硬顶限制")
)

// 外部调用类错误
var (
	ErrTransferFailed = NewError(KindExternal, "资金划转失败")
	ErrLedgerFailed   = NewError(KindExternal, "代币账本调用失败")
	ErrLaunchFailed   = NewError(KindExternal, "流动性发射调用失败")
)

// 记录不存在
var (
	ErrCampaignNotFound = NewError(KindNotFound, "活动不存在")
	ErrVoteNotFound     = NewError(KindNotFound, "投票不存在")
)
