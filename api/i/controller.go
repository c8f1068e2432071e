package i

import "github.com/gin-gonic/gin"

// Controller registers its routes on the router.
type Controller interface {
	RegisterPublic(*gin.RouterGroup)
	RegisterProtected(*gin.RouterGroup)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	CodeBadRequest      = "badRequest"
	CodeInvalidArgument = "invalidArgument"
	CodeMapNotFound     = "mapNotFound"
	CodeInvalidToken    = "invalidToken"
	CodeUnknownToken    = "unknownToken"
	CodeInternal        = "internalError"
)
