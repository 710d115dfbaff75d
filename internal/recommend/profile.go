package recommend

import (
	"strconv"
	"strings"
)

const (
	placeholderUnselected = "없음/미선택"
	placeholderEmpty      = "미입력"
)

// Profile holds the raw user selections a run starts from.
type Profile struct {
	PreferredGenres []string `json:"preferred_genres"`
	ExcludedGenres  []string `json:"excluded_genres"`
	Experiences     []string `json:"experiences"`
	ExperienceNote  string   `json:"experience_note"`
	LikedGames      string   `json:"liked_games"`
	Platforms       []string `json:"platforms"`
	HoursPerDay     float64  `json:"hours_per_day"`
}

// CompileProfile renders the profile as the fixed-order block every prompt
// embeds. Absent fields render as placeholders so the block always has the
// same lines.
func CompileProfile(p Profile) string {
	var b strings.Builder
	b.WriteString("[사용자 선호 프로필]\n")
	b.WriteString("- 선호 장르: " + listOrPlaceholder(p.PreferredGenres) + "\n")
	b.WriteString("- 비선호 장르: " + listOrPlaceholder(p.ExcludedGenres) + "\n")
	b.WriteString("- 원하는 감정(플레이 경험): " + experienceLine(p.Experiences, p.ExperienceNote) + "\n")
	b.WriteString("- 재미있게 플레이한 게임(참고): " + textOrPlaceholder(p.LikedGames) + "\n")
	b.WriteString("- 선호 플랫폼/기기: " + listOrPlaceholder(p.Platforms) + "\n")
	b.WriteString("- 하루 예상 플레이시간: " + formatHours(p.HoursPerDay) + "시간")
	return b.String()
}

func joinNonEmpty(items []string) string {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			kept = append(kept, item)
		}
	}
	return strings.Join(kept, ", ")
}

func listOrPlaceholder(items []string) string {
	if joined := joinNonEmpty(items); joined != "" {
		return joined
	}
	return placeholderUnselected
}

func textOrPlaceholder(text string) string {
	if text = strings.TrimSpace(text); text != "" {
		return text
	}
	return placeholderEmpty
}

func experienceLine(tags []string, note string) string {
	joined := joinNonEmpty(tags)
	note = strings.TrimSpace(note)
	switch {
	case joined == "" && note == "":
		return placeholderUnselected
	case joined == "":
		return note
	case note == "":
		return joined
	default:
		return joined + " (추가: " + note + ")"
	}
}

func formatHours(hours float64) string {
	if hours < 0 {
		hours = 0
	}
	return strconv.FormatFloat(hours, 'f', -1, 64)
}
