package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 文件上传相关常量
const (
	MimeText = "text/"
)

// SupportedDocumentTypes 可识别文字的文档类型
var SupportedDocumentTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/tiff",
	"image/bmp",
}

func IsSupportedDocumentType(mimeType string) bool {
	for _, t := range SupportedDocumentTypes {
		if t == mimeType {
			return true
		}
	}
	return false
}
