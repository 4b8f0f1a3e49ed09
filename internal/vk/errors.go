package vk

import (
	"fmt"

	"github.com/Veraticus/audience-scope/internal/common"
)

// VK API error codes the client reacts to.
const (
	codeAuthFailed     = 5
	codeTooManyRequest = 6
	codeFlood          = 9
	codeInternal       = 10
	codeAccessDenied   = 15
	codeInvalidParam   = 100
	codeGroupAccess    = 203
)

// APIError is an error payload returned by the VK API.
type APIError struct {
	Method  string `json:"-"`
	Message string `json:"error_msg"`
	Code    int    `json:"error_code"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vk %s: error %d: %s", e.Method, e.Code, e.Message)
}

// Is maps VK error codes onto application sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case common.ErrRateLimit:
		return e.Code == codeTooManyRequest || e.Code == codeFlood
	case common.ErrAccessDenied:
		return e.Code == codeAuthFailed
	case common.ErrGroupClosed:
		return e.Code == codeAccessDenied || e.Code == codeGroupAccess
	case common.ErrNotFound:
		return e.Code == codeInvalidParam
	}
	return false
}

// temporary reports whether repeating the call may succeed.
func (e *APIError) temporary() bool {
	return e.Code == codeTooManyRequest || e.Code == codeInternal
}
