package qr

import (
	"encoding/base64"
	"errors"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultSize = 256

// EncodePNG 将内容渲染为 QR 码 PNG 字节
func EncodePNG(content string, size int) ([]byte, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("qr content is empty")
	}
	if size <= 0 {
		size = defaultSize
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}

// EncodeDataURL 将内容渲染为 data URL，便于前端直接内嵌展示
func EncodeDataURL(content string, size int) (string, error) {
	png, err := EncodePNG(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
