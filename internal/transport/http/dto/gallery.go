package dto

import "io"

type CreateGalleryRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=5000"`
	IsPublic    bool   `json:"isPublic"`
	Password    string `json:"password,omitempty" validate:"omitempty,min=4,max=72"`
}

// UpdateGalleryRequest nil-поля не меняются; пустой Password снимает защиту паролем
type UpdateGalleryRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	IsPublic    *bool   `json:"isPublic,omitempty"`
	Password    *string `json:"password,omitempty" validate:"omitempty,max=72"`
}

// GalleryAccess то, чем анонимный клиент подтверждает доступ
type GalleryAccess struct {
	Key      string
	Password string
	PhotoID  string
}

type AccessKeyResponse struct {
	AccessKey string `json:"accessKey"`
}

type ReorderPhotosRequest struct {
	PhotoIDs []string `json:"photoIds" validate:"required,min=1,dive,uuid"`
}

type UploadResponse struct {
	Uploaded int `json:"uploaded"`
	Photos   any `json:"photos"`
}

// PhotoFile один файл из multipart-загрузки
type PhotoFile struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}
