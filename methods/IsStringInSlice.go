package methods

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
)

func IsStringInSlice(s string, slice []string) bool {
	set := make(map[string]bool)
	for _, v := range slice {
		set[v] = true
	}
	return set[s]
}

// moveLeadingNumbersToEnd 把前导数字挪到末尾，避免生成非法标识符
func moveLeadingNumbersToEnd(s string) string {
	re := regexp.MustCompile(`^(\d+)(.*)$`)
	match := re.FindStringSubmatch(s)
	if len(match) == 3 {
		return match[2] + match[1]
	}
	return s
}

// filterString 只保留中文、英文、数字与下划线
func filterString(str string) string {
	reg := regexp.MustCompile("[^\\p{Han}\\p{Latin}\\p{N}_]")
	result := reg.ReplaceAllString(str, "")
	result = strings.ReplaceAll(result, " ", "")
	return result
}

// ConvertToInitials 将中文字符串转换为拼音首字母拼接字符串
func ConvertToInitials(hanzi string) string {
	hanzi = filterString(hanzi)
	a := pinyin.NewArgs()
	a.Style = pinyin.FirstLetter
	var result string
	for _, runeValue := range hanzi {
		if unicode.Is(unicode.Han, runeValue) {
			pinyinSlice := pinyin.SinglePinyin(runeValue, a)
			if len(pinyinSlice) > 0 {
				result += pinyinSlice[0]
			}
		} else {
			result += string(runeValue)
		}
	}
	processed := moveLeadingNumbersToEnd(result)
	return strings.ToLower(processed)
}
