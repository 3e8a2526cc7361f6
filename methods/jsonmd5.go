package methods

import (
	"crypto/md5"
	"encoding/hex"
)

// Md5Str 字符串的MD5十六进制摘要，用作缓存键
func Md5Str(data string) string {
	hash := md5.New()
	hash.Write([]byte(data))
	return hex.EncodeToString(hash.Sum(nil))
}
