package maintenance

import "unicode/utf8"

const (
	reportPreviewRunes = 50

	msgNewReport    = "새로운 고장 신고가 접수되었습니다: "
	msgAssigned     = "고장 신고가 유지보수팀에 배정되었습니다."
	msgValidatedOK  = "고장 신고가 유효한 것으로 검증되었습니다. 배지를 확인해주세요!"
	msgValidatedAny = "고장 신고가 검증되었습니다."
)

func newReportMessage(content string) string {
	return msgNewReport + preview(content, reportPreviewRunes)
}

func verdictMessage(valid bool) string {
	if valid {
		return msgValidatedOK
	}
	return msgValidatedAny
}

// preview truncates s to n runes without splitting a character.
func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
