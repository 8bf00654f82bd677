package model

import "strings"

// UploadResult describes a stored file.
type UploadResult struct {
	URL         string `json:"url"`
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// DeleteUploadRequest addresses a stored file by its relative path.
type DeleteUploadRequest struct {
	Path string `param:"*" json:"-" validate:"required,max=512"`
}

func (r *DeleteUploadRequest) Validate() error {
	r.Path = strings.TrimPrefix(r.Path, "/")
	return validate(r)
}
