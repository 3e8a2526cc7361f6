package methods

import (
	"reflect"
	"strings"
	"unicode"
)

// CamelCaseToUnderscore 驼峰转下划线命名
func CamelCaseToUnderscore(str string) string {
	var result strings.Builder
	result.Grow(len(str) + 5)
	var last rune = -1
	for _, r := range str {
		if unicode.IsUpper(r) {
			if last != -1 && !unicode.IsUpper(last) {
				result.WriteRune('_')
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
		last = r
	}
	return result.String()
}

func transformStruct(itemValue reflect.Value) map[string]interface{} {
	item := make(map[string]interface{})
	itemType := itemValue.Type()

	for j := 0; j < itemValue.NumField(); j++ {
		field := itemType.Field(j)
		fieldValue := itemValue.Field(j)

		if field.Type.Kind() == reflect.Struct {
			item[CamelCaseToUnderscore(field.Name)] = transformStruct(fieldValue)
		} else if field.Type.Kind() == reflect.Slice && fieldValue.Len() > 0 && fieldValue.Index(0).Kind() == reflect.Struct {
			slice := make([]interface{}, fieldValue.Len())
			for i := 0; i < fieldValue.Len(); i++ {
				slice[i] = transformStruct(fieldValue.Index(i))
			}
			item[CamelCaseToUnderscore(field.Name)] = slice
		} else {
			item[CamelCaseToUnderscore(field.Name)] = fieldValue.Interface()
		}
	}
	return item
}

// LowerJSONTransform 把结构体或结构体切片转成下划线键名的map，用于接口出参
func LowerJSONTransform(xmList interface{}) interface{} {
	var result []map[string]interface{}
	slice := reflect.ValueOf(xmList)
	if slice.Kind() != reflect.Slice {
		return transformStruct(slice)
	}
	for i := 0; i < slice.Len(); i++ {
		itemValue := slice.Index(i)
		if itemValue.Kind() == reflect.Struct {
			result = append(result, transformStruct(itemValue))
		} else {
			result = append(result, itemValue.Interface().(map[string]interface{}))
		}
	}
	return result
}
