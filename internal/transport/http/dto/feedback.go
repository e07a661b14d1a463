package dto

type AddCommentRequest struct {
	PhotoID    string `json:"photoId" validate:"required,uuid"`
	ClientName string `json:"clientName" validate:"required,max=100"`
	Body       string `json:"body" validate:"required,max=2000"`
}

type ReplyCommentRequest struct {
	Reply string `json:"reply" validate:"required,max=2000"`
}

type FavoriteRequest struct {
	PhotoID    string `json:"photoId" validate:"required,uuid"`
	ClientName string `json:"clientName" validate:"required,max=100"`
}
