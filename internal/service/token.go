package service

import (
	crand "crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/walaa-next/internal/constants"
)

// GenerateToken 生成带前缀的随机令牌：{prefix}_{32位十六进制}。
// 随机源不可用时退化为固定字母序列，调用方靠唯一索引兜底。
func GenerateToken(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = constants.TokenPrefixQR
	}
	return prefix + "_" + randomHex(constants.TokenRandomBytes)
}

// GenerateVoucherCode 生成代金券码：VCH_{12位大写十六进制}。
func GenerateVoucherCode() string {
	return constants.VoucherCodePrefix + "_" + strings.ToUpper(randomHex(constants.VoucherCodeBytes))
}

func randomHex(n int) string {
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n)
	if _, err := crand.Read(buf); err != nil {
		fallback := make([]byte, n)
		for i := range fallback {
			fallback[i] = byte('A' + (i % 26))
		}
		return hex.EncodeToString(fallback)
	}
	return hex.EncodeToString(buf)
}
