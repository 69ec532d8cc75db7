package service

import (
	"context"

	"github.com/michalwarchol/slash-api/internal/dto"
	"github.com/michalwarchol/slash-api/internal/model"
	"github.com/michalwarchol/slash-api/pkg/storage"
)

// Model-to-DTO mapping shared by all services. Opaque storage keys are
// resolved to signed URLs here, once per response assembly.

func toUserResponse(ctx context.Context, resolver storage.LinkResolver, u *model.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Avatar:    resolver.ResolveLink(ctx, storage.UtilityBucket, u.Avatar),
		Type:      u.Type,
	}
}

func toSubTypeResponse(st *model.CourseSubType) *dto.SubTypeResponse {
	if st == nil {
		return nil
	}
	resp := &dto.SubTypeResponse{
		ID:      st.ID,
		Name:    st.Name,
		ValuePl: st.ValuePl,
		ValueEn: st.ValueEn,
	}
	if st.MainType != nil {
		resp.MainType = &dto.CourseTypeLabel{
			ID:      st.MainType.ID,
			Name:    st.MainType.Name,
			ValuePl: st.MainType.ValuePl,
			ValueEn: st.MainType.ValueEn,
		}
	}
	return resp
}

func toCourseResponse(ctx context.Context, resolver storage.LinkResolver, c *model.Course) dto.CourseResponse {
	return dto.CourseResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		Creator:     toUserResponse(ctx, resolver, c.Creator),
		Type:        toSubTypeResponse(c.Type),
	}
}

func toVideoResponse(ctx context.Context, resolver storage.LinkResolver, v *model.CourseVideo) dto.VideoResponse {
	return dto.VideoResponse{
		ID:            v.ID,
		Name:          v.Name,
		Description:   v.Description,
		Link:          resolver.ResolveLink(ctx, storage.VideoBucket, v.Link),
		ThumbnailLink: resolver.ResolveLink(ctx, storage.UtilityBucket, v.ThumbnailLink),
		Duration:      v.Duration,
		Views:         v.Views,
		CreatedAt:     v.CreatedAt,
	}
}

func toMaterialResponse(ctx context.Context, resolver storage.LinkResolver, m *model.CourseMaterial) dto.MaterialResponse {
	return dto.MaterialResponse{
		ID:   m.ID,
		Name: m.Name,
		Link: resolver.ResolveLink(ctx, storage.UtilityBucket, m.Link),
		Type: m.Type,
		Size: m.Size,
	}
}

func toCommentResponse(ctx context.Context, resolver storage.LinkResolver, c *model.VideoComment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        c.ID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		Author:    toUserResponse(ctx, resolver, c.Author),
	}
}

// localizedValue picks the label variant for a two-letter language code.
// Anything other than "pl" falls back to English.
func localizedValue(lang, valuePl, valueEn string) string {
	if lang == "pl" {
		return valuePl
	}
	return valueEn
}
