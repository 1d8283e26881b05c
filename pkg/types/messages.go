package types

// Caller-facing messages. The web client shows these verbatim.
const (
	MsgInvalidBackendAddress = "백엔드 주소(IP/호스트/포트)가 올바르지 않습니다."
	MsgCoverFieldsRequired   = "API Key, 책 제목, 책 내용, 모델은 필수입니다."
	MsgUnsupportedModel      = "지원하지 않는 모델입니다."
	MsgContentTooLong        = "책 내용은 최대 2000자까지 가능합니다."
	MsgImageAPIFailed        = "OpenAI API 호출에 실패했습니다."
	MsgImageURLMissing       = "이미지 URL 생성에 실패했습니다."
	MsgServerError           = "서버에서 요청을 처리하는 중 오류가 발생했습니다."
	MsgCheckCredentials      = "아이디와 비밀번호를 다시 확인해주세요."
	MsgWrongCredentials      = "아이디 또는 비밀번호가 잘못되었습니다."
	MsgBackendError          = "백엔드 통신 중 오류가 발생했습니다."
	MsgPublishFieldsRequired = "책 제목, 내용, 표지가 모두 필요합니다."
	MsgInvalidJSON           = "요청 본문을 해석할 수 없습니다."
	MsgTooManyRequests       = "요청이 너무 많습니다. 잠시 후 다시 시도해주세요."
)

// Upstream names used in errors and logs
const (
	UpstreamOpenAI  = "openai"
	UpstreamCatalog = "catalog"
)
