package middlewares

const (
	CtxRequestID = "request_id"
	CtxAuthUser  = "auth.user"
)
