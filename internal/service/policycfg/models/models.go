package models

import (
	"time"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
)

// Request модели

// UpsertOverrideRequest запрос на создание или обновление override'а
// Незаданные поля (nil) не переопределяют политику
type UpsertOverrideRequest struct {
	MentorID  int64       `json:"mentorId"`
	ActorID   int64       `json:"actorId"`
	ActorRole domain.Role `json:"actorRole"`
	ServiceID *int64      `json:"serviceId,omitempty"` // nil = override для всех услуг ментора

	MinLeadHours             *int  `json:"minLeadHours,omitempty"`
	MaxAdvanceDays           *int  `json:"maxAdvanceDays,omitempty"`
	MaxReschedules           *int  `json:"maxReschedules,omitempty"`
	CancellationWindowHours  *int  `json:"cancellationWindowHours,omitempty"`
	LateCancelAsNoShow       *bool `json:"lateCancelAsNoShow,omitempty"`
	DuplicateCooldownMinutes *int  `json:"duplicateCooldownMinutes,omitempty"`
}

// ToDomainOverride конвертирует request в domain модель
func (r *UpsertOverrideRequest) ToDomainOverride() *domain.MentorPolicyOverride {
	return &domain.MentorPolicyOverride{
		MentorID:                 r.MentorID,
		ServiceID:                r.ServiceID,
		MinLeadHours:             r.MinLeadHours,
		MaxAdvanceDays:           r.MaxAdvanceDays,
		MaxReschedules:           r.MaxReschedules,
		CancellationWindowHours:  r.CancellationWindowHours,
		LateCancelAsNoShow:       r.LateCancelAsNoShow,
		DuplicateCooldownMinutes: r.DuplicateCooldownMinutes,
	}
}

// Response модели

// OverrideResponse ответ с данными override'а
type OverrideResponse struct {
	ID        int64  `json:"id"`
	MentorID  int64  `json:"mentorId"`
	ServiceID *int64 `json:"serviceId,omitempty"`

	MinLeadHours             *int  `json:"minLeadHours,omitempty"`
	MaxAdvanceDays           *int  `json:"maxAdvanceDays,omitempty"`
	MaxReschedules           *int  `json:"maxReschedules,omitempty"`
	CancellationWindowHours  *int  `json:"cancellationWindowHours,omitempty"`
	LateCancelAsNoShow       *bool `json:"lateCancelAsNoShow,omitempty"`
	DuplicateCooldownMinutes *int  `json:"duplicateCooldownMinutes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OverrideListResponse ответ со списком override'ов ментора
type OverrideListResponse struct {
	MentorID  int64              `json:"mentorId"`
	Overrides []OverrideResponse `json:"overrides"`
}

// Методы конвертации

// FromDomainOverride конвертирует domain модель в DTO
func FromDomainOverride(o *domain.MentorPolicyOverride) *OverrideResponse {
	if o == nil {
		return nil
	}

	return &OverrideResponse{
		ID:                       o.ID,
		MentorID:                 o.MentorID,
		ServiceID:                o.ServiceID,
		MinLeadHours:             o.MinLeadHours,
		MaxAdvanceDays:           o.MaxAdvanceDays,
		MaxReschedules:           o.MaxReschedules,
		CancellationWindowHours:  o.CancellationWindowHours,
		LateCancelAsNoShow:       o.LateCancelAsNoShow,
		DuplicateCooldownMinutes: o.DuplicateCooldownMinutes,
		CreatedAt:                o.CreatedAt,
		UpdatedAt:                o.UpdatedAt,
	}
}

// FromDomainOverrideList конвертирует список domain моделей в DTO
func FromDomainOverrideList(mentorID int64, overrides []*domain.MentorPolicyOverride) *OverrideListResponse {
	resp := &OverrideListResponse{
		MentorID:  mentorID,
		Overrides: make([]OverrideResponse, 0, len(overrides)),
	}

	for _, override := range overrides {
		if overrideResp := FromDomainOverride(override); overrideResp != nil {
			resp.Overrides = append(resp.Overrides, *overrideResp)
		}
	}

	return resp
}
