// 에러 메시지 정규화
// 의미상 같은 에러가 같은 텍스트가 되도록 변하는 값(시간, UUID, 수치, URL 쿼리)을 제거
//
// 적용 순서:
//  1. performance_issue: ": 1234ms" 형태의 수치를 ": Xms" 로 치환
//  2. network_error: 절대 URL 의 쿼리/프래그먼트 제거 (origin + path 만 유지)
//  3. ISO-8601 형태의 시각 -> TIMESTAMP
//  4. UUID -> UUID
//
// Normalize(Normalize(m)) == Normalize(m)

package fingerprint

import (
	"regexp"
	"strings"

	"github.com/interworky/error-tracker/internal/model"
)

var (
	measurementPattern = regexp.MustCompile(`:\s*\d+(?:\.\d+)?\s*(ms|MB|KB|bytes|s)\b`)
	absoluteURLPattern = regexp.MustCompile(`https?://[^\s"'<>()]+`)
	timestampPattern   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}(?::\d{2}(?:\.\d+)?)?(?:Z|[+-]\d{2}:?\d{2})?`)
	uuidPattern        = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
)

// Normalize - fingerprint 계산 전에 메시지에서 변하는 값을 제거
func Normalize(message string, category model.Category) string {
	out := message

	if category == model.CategoryPerformanceIssue {
		out = measurementPattern.ReplaceAllString(out, ": X$1")
	}

	if category == model.CategoryNetworkError {
		out = absoluteURLPattern.ReplaceAllStringFunc(out, stripQuery)
	}

	out = timestampPattern.ReplaceAllString(out, "TIMESTAMP")
	out = uuidPattern.ReplaceAllString(out, "UUID")
	return out
}

// stripQuery - "?" 또는 "#" 이후를 잘라 origin + path 만 남김
func stripQuery(rawURL string) string {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
