package recommend

import (
	"errors"
	"fmt"
	"strings"

	"playmate/internal/llmjson"
	"playmate/internal/services"
)

// SchemaError reports a decoded reply whose shape, count or identifiers do not
// match what the stage asked for.
type SchemaError struct {
	Stage   string
	Reason  string
	Snippet string
	Err     error
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("%s: unexpected response shape: %s", e.Stage, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SchemaError) Unwrap() []error {
	if e.Err == nil {
		return []error{services.ErrValidation}
	}
	return []error{services.ErrValidation, e.Err}
}

// NoMatchError reports that no candidate survived catalog resolution.
type NoMatchError struct {
	Candidates int
	Platforms  []string
}

func (e *NoMatchError) Error() string {
	if len(e.Platforms) == 0 {
		return fmt.Sprintf("none of %d candidates matched the catalog", e.Candidates)
	}
	return fmt.Sprintf("none of %d candidates matched the catalog for platforms %s",
		e.Candidates, strings.Join(e.Platforms, ", "))
}

func (e *NoMatchError) Unwrap() error {
	return services.ErrNotFound
}

// UpstreamError reports a single remote call that failed at the transport level.
type UpstreamError struct {
	Op    string
	Query string
	Err   error
}

func (e *UpstreamError) Error() string {
	if e.Query == "" {
		return fmt.Sprintf("%s: upstream call failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: upstream call failed: %v", e.Op, e.Query, e.Err)
}

func (e *UpstreamError) Unwrap() []error {
	return []error{services.ErrTransient, e.Err}
}

// UserMessage turns a pipeline error into the single line shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var (
		noMatch  *NoMatchError
		schema   *SchemaError
		decode   *llmjson.DecodeError
		upstream *UpstreamError
	)
	switch {
	case errors.As(err, &noMatch):
		return "조건에 맞는 게임을 찾지 못했어요. 플랫폼 필터를 넓히거나 힌트를 더 추가해 보세요."
	case errors.As(err, &schema), errors.As(err, &decode):
		return "모델이 올바른 JSON을 반환하지 못했습니다. 잠시 후 다시 시도해 주세요."
	case errors.As(err, &upstream):
		return "외부 서비스 호출에 실패했습니다. 네트워크와 API 키를 확인해 주세요."
	case errors.Is(err, services.ErrConfiguration):
		return "설정 오류: " + err.Error()
	default:
		return "추천 생성 실패: " + err.Error()
	}
}
