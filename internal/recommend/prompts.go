package recommend

import (
	"fmt"
	"strconv"
	"strings"
)

// AdvisorInstructions is the system prompt shared by direct recommendations
// and the chat session. It embeds the compiled profile.
func AdvisorInstructions(profileText string) string {
	return strings.TrimSpace(`
너는 '플레이메이트'라는 게임 추천 챗봇이다.
- 한국어로 답한다.
- 사용자의 선호/비선호 장르, 원하는 감정, 재미있게 했던 게임, 플랫폼, 하루 플레이시간을 최우선 반영한다.
- 가격/플랫폼은 지역/세일/스토어에 따라 달라질 수 있으므로 "대략"으로만 말하고, 단정하지 않는다.
- 기본 답변은 짧고 명확하게. 사용자가 원하면 자세히 확장한다.

` + profileText)
}

const jsonOnlyInstructions = "너는 게임 추천 파이프라인의 한 단계다. 출력은 유효한 JSON 객체 하나만 출력한다. 설명, 코드펜스, 마크다운은 금지한다."

func candidatePrompt(profileText string, n int) string {
	return fmt.Sprintf(`아래 [사용자 선호 프로필]에 어울리는 실제로 출시된 게임 후보를 정확히 %d개 제시하라.

중요(반드시 준수):
- 출력은 {"candidates": ["게임 이름", ...]} 형태의 JSON 하나만 출력한다.
- candidates 배열에는 정확히 %d개의 문자열만 넣는다.
- 게임 이름은 카탈로그 검색이 가능하도록 공식 영문 명칭을 사용한다.
- 같은 게임을 두 번 넣지 않는다.
- 비선호 장르는 피하고, 사용자의 플랫폼에서 플레이 가능한 타이틀을 우선한다.

%s`, n, n, profileText)
}

func selectionPrompt(profileText, factsJSON string) string {
	return fmt.Sprintf(`아래 [사용자 선호 프로필]과 [검증된 게임 목록]을 보고, 이 사용자에게 확신을 가지고 추천할 수 있는 게임만 골라라.

중요(반드시 준수):
- 출력은 {"selected": [{"id": 123, "reason": "추천 이유", "time_fit": "하루 플레이시간과의 적합도", "caution": "주의/메모(선택)"}]} 형태의 JSON 하나만 출력한다.
- id는 반드시 [검증된 게임 목록]에 있는 id 값만 사용한다.
- 개수를 맞추려고 억지로 고르지 마라. 확신이 없으면 selected를 빈 배열로 둔다.

%s

[검증된 게임 목록]
%s`, profileText, factsJSON)
}

func selectionRepairPrompt(invalid string, ids []int64) string {
	allowed := make([]string, 0, len(ids))
	for _, id := range ids {
		allowed = append(allowed, strconv.FormatInt(id, 10))
	}
	return fmt.Sprintf(`아래 출력은 JSON 파싱에 실패했다.
반드시 {"selected": [...]} 형태의 유효한 JSON 하나만 출력해서 수정해라. 다른 텍스트는 절대 출력하지 마라.
조건: id는 다음 값 중에서만 사용한다: %s

[잘못된 출력]
%s`, strings.Join(allowed, ", "), invalid)
}

const directSchemaHint = `{
  "recommendations": [
    {
      "title": "string",
      "genre": "string",
      "platforms": ["string"],
      "price_range_krw": "string",
      "store_hint": "string",
      "why_recommended": "string",
      "fit_emotions": ["string"],
      "time_fit": "string",
      "caution_or_note": "string"
    }
  ],
  "summary": "string",
  "price_disclaimer": "string"
}`

func directPrompt(profileText string, count int) string {
	return fmt.Sprintf(`너는 게임 추천 전문가다.
아래 [사용자 선호 프로필]을 기반으로 게임 %d개를 추천하라.

중요(반드시 준수):
- 출력은 "유효한 JSON" 하나만 출력한다. (설명/코드펜스/여분 텍스트/마크다운 금지)
- recommendations는 정확히 %d개 항목만 포함한다.
- 비선호 장르는 최대한 피한다.
- 사용자의 플랫폼에서 플레이 가능한 타이틀을 우선한다.
- 가격은 실시간 조회가 아니라 "대략적인 가격대(원)"로 제시한다.
- 어떤 스토어에서 확인하면 되는지도 store_hint에 적는다. (예: Steam/PS Store/eShop/Google Play 등)
- 아래 JSON 키 이름을 정확히 그대로 사용한다.

[JSON 스키마 예시]
%s

%s`, count, count, directSchemaHint, profileText)
}

func directRepairPrompt(invalid string, count int) string {
	return fmt.Sprintf(`아래 출력은 JSON 파싱에 실패했거나 조건을 어겼다.
반드시 "유효한 JSON" 하나만 출력해서 수정해라. 다른 텍스트는 절대 출력하지 마라.
조건: recommendations는 정확히 %d개.

[잘못된 출력]
%s`, count, invalid)
}
