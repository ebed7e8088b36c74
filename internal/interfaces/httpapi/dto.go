package httpapi

import (
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/entry"
	"github.com/riskibarqy/survivor-pool/internal/domain/pick"
	"github.com/riskibarqy/survivor-pool/internal/domain/result"
	"github.com/riskibarqy/survivor-pool/internal/domain/team"
	"github.com/riskibarqy/survivor-pool/internal/domain/user"
	"github.com/riskibarqy/survivor-pool/internal/usecase"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

type teamRequest struct {
	Name string `json:"name" validate:"required,max=80"`
}

type createEntryRequest struct {
	Nickname   string `json:"nickname" validate:"required,max=80"`
	OwnerEmail string `json:"ownerEmail" validate:"omitempty,email"`
}

type submitPickRequest struct {
	EntryID  string `json:"entryId" validate:"required"`
	Week     int    `json:"week" validate:"gte=0"`
	TeamName string `json:"teamName" validate:"required,max=80"`
}

type editPickRequest struct {
	Week     int    `json:"week" validate:"gte=0"`
	TeamName string `json:"teamName" validate:"omitempty,max=80"`
}

type recordResultRequest struct {
	Week     int    `json:"week" validate:"required,gt=0"`
	TeamName string `json:"teamName" validate:"required,max=80"`
	Outcome  string `json:"outcome" validate:"required,max=16"`
}

type changeRoleRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
}

type userDTO struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

type sessionDTO struct {
	AccessToken string  `json:"accessToken"`
	TokenType   string  `json:"tokenType"`
	ExpiresAt   string  `json:"expiresAt"`
	User        userDTO `json:"user"`
}

type teamDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type entryDTO struct {
	ID         string `json:"id"`
	OwnerEmail string `json:"ownerEmail"`
	Nickname   string `json:"nickname"`
	Verified   bool   `json:"verified"`
	CreatedAt  string `json:"createdAt"`
}

type pickDTO struct {
	ID        string `json:"id"`
	EntryID   string `json:"entryId"`
	Week      int    `json:"week"`
	TeamName  string `json:"teamName"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type resultDTO struct {
	Week       int    `json:"week"`
	TeamName   string `json:"teamName"`
	Outcome    string `json:"outcome"`
	RecordedAt string `json:"recordedAt"`
}

type entryStatusDTO struct {
	EntryID          string `json:"entryId"`
	Eliminated       bool   `json:"eliminated"`
	EliminatedWeek   int    `json:"eliminatedWeek,omitempty"`
	SurvivedWeeks    int    `json:"survivedWeeks"`
	PendingWeeks     int    `json:"pendingWeeks"`
	LastResolvedWeek int    `json:"lastResolvedWeek"`
}

type standingDTO struct {
	Entry  entryDTO       `json:"entry"`
	Status entryStatusDTO `json:"status"`
}

type userOverviewDTO struct {
	Email   string             `json:"email"`
	Role    string             `json:"role"`
	Entries []entryOverviewDTO `json:"entries"`
}

type entryOverviewDTO struct {
	Entry entryDTO  `json:"entry"`
	Picks []pickDTO `json:"picks"`
}

type weekScheduleDTO struct {
	Week        int    `json:"week"`
	Deadline    string `json:"deadline"`
	Locked      bool   `json:"locked"`
	CurrentWeek int    `json:"currentWeek"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func userToDTO(item user.User) userDTO {
	return userDTO{
		Email:     item.Email,
		Role:      string(item.Role),
		CreatedAt: formatTime(item.CreatedAt),
	}
}

func sessionToDTO(item usecase.Session) sessionDTO {
	return sessionDTO{
		AccessToken: item.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   formatTime(item.ExpiresAt),
		User:        userToDTO(item.User),
	}
}

func teamToDTO(item team.Team) teamDTO {
	return teamDTO{ID: item.ID, Name: item.Name}
}

func teamsToDTO(items []team.Team) []teamDTO {
	out := make([]teamDTO, 0, len(items))
	for _, item := range items {
		out = append(out, teamToDTO(item))
	}
	return out
}

func entryToDTO(item entry.Entry) entryDTO {
	return entryDTO{
		ID:         item.ID,
		OwnerEmail: item.OwnerEmail,
		Nickname:   item.Nickname,
		Verified:   item.Verified,
		CreatedAt:  formatTime(item.CreatedAt),
	}
}

func entriesToDTO(items []entry.Entry) []entryDTO {
	out := make([]entryDTO, 0, len(items))
	for _, item := range items {
		out = append(out, entryToDTO(item))
	}
	return out
}

func pickToDTO(item pick.Pick) pickDTO {
	return pickDTO{
		ID:        item.ID,
		EntryID:   item.EntryID,
		Week:      item.Week,
		TeamName:  item.TeamName,
		CreatedAt: formatTime(item.CreatedAt),
		UpdatedAt: formatTime(item.UpdatedAt),
	}
}

func picksToDTO(items []pick.Pick) []pickDTO {
	out := make([]pickDTO, 0, len(items))
	for _, item := range items {
		out = append(out, pickToDTO(item))
	}
	return out
}

func resultToDTO(item result.Result) resultDTO {
	return resultDTO{
		Week:       item.Week,
		TeamName:   item.TeamName,
		Outcome:    string(item.Outcome),
		RecordedAt: formatTime(item.RecordedAt),
	}
}

func resultsToDTO(items []result.Result) []resultDTO {
	out := make([]resultDTO, 0, len(items))
	for _, item := range items {
		out = append(out, resultToDTO(item))
	}
	return out
}

func statusToDTO(item result.Status) entryStatusDTO {
	return entryStatusDTO{
		EntryID:          item.EntryID,
		Eliminated:       item.Eliminated,
		EliminatedWeek:   item.EliminatedWeek,
		SurvivedWeeks:    item.SurvivedWeeks,
		PendingWeeks:     item.PendingWeeks,
		LastResolvedWeek: item.LastResolvedWeek,
	}
}

func standingsToDTO(items []usecase.Standing) []standingDTO {
	out := make([]standingDTO, 0, len(items))
	for _, item := range items {
		out = append(out, standingDTO{
			Entry:  entryToDTO(item.Entry),
			Status: statusToDTO(item.Status),
		})
	}
	return out
}

func overviewToDTO(items []usecase.UserOverview) []userOverviewDTO {
	out := make([]userOverviewDTO, 0, len(items))
	for _, item := range items {
		entries := make([]entryOverviewDTO, 0, len(item.Entries))
		for _, e := range item.Entries {
			entries = append(entries, entryOverviewDTO{
				Entry: entryToDTO(e.Entry),
				Picks: picksToDTO(e.Picks),
			})
		}
		out = append(out, userOverviewDTO{
			Email:   item.Email,
			Role:    string(item.Role),
			Entries: entries,
		})
	}
	return out
}
