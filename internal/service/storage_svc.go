package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// ==================== StorageService 本地上传存储 ====================

// StorageService 手工录入商品的配图存储
// 落到本地静态目录，文件名用 UUID 避免覆盖
type StorageService struct {
	baseDir   string
	urlPrefix string
}

// NewStorageService 创建存储服务并确保目录存在
func NewStorageService(baseDir, urlPrefix string) (*StorageService, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("上传目录创建失败: %w", err)
	}
	return &StorageService{baseDir: baseDir, urlPrefix: urlPrefix}, nil
}

// SaveImage 保存上传的图片，返回对外访问路径
func (s *StorageService) SaveImage(file *multipart.FileHeader) (string, error) {
	ext := filepath.Ext(file.Filename)
	newFilename := fmt.Sprintf("%s%s", uuid.New().String(), ext)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("读取上传文件失败: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.baseDir, newFilename))
	if err != nil {
		return "", fmt.Errorf("写入上传文件失败: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("写入上传文件失败: %w", err)
	}
	return path.Join(s.urlPrefix, newFilename), nil
}
