package handlers

import (
	"net/http"

	"github.com/Dosada05/groupcup/brackets"
	"github.com/Dosada05/groupcup/models"
	"github.com/Dosada05/groupcup/services"
	"github.com/go-chi/chi/v5"
)

type MatchHandler struct {
	tournamentService services.TournamentService
}

func NewMatchHandler(ts services.TournamentService) *MatchHandler {
	return &MatchHandler{tournamentService: ts}
}

// RecordGroupScore godoc
// @Summary Записать счёт матча группового этапа
// @Tags matches
// @Accept json
// @Produce json
// @Param tournamentID path int true "ID турнира"
// @Param index path int true "Номер матча в расписании (с нуля)"
// @Param body body models.ScoreInput true "Счёт"
// @Success 200 {object} models.StandingsView
// @Failure 400 {object} map[string]string "Неверный счёт или номер матча"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/matches/{index}/score [put]
func (h *MatchHandler) RecordGroupScore(w http.ResponseWriter, r *http.Request) {
	id, index, ok := groupMatchParams(w, r)
	if !ok {
		return
	}

	var input models.ScoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.tournamentService.RecordGroupScore(r.Context(), id, index, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ClearGroupScore godoc
// @Summary Удалить счёт матча группового этапа
// @Tags matches
// @Produce json
// @Param tournamentID path int true "ID турнира"
// @Param index path int true "Номер матча в расписании (с нуля)"
// @Success 200 {object} models.StandingsView
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/matches/{index}/score [delete]
func (h *MatchHandler) ClearGroupScore(w http.ResponseWriter, r *http.Request) {
	id, index, ok := groupMatchParams(w, r)
	if !ok {
		return
	}

	view, err := h.tournamentService.ClearGroupScore(r.Context(), id, index)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetKnockout godoc
// @Summary Получить сетку плей-офф
// @Tags knockout
// @Description При первом запросе сетка строится по текущей таблице и дальше не меняется.
// @Produce json
// @Param tournamentID path int true "ID турнира"
// @Success 200 {object} models.KnockoutView
// @Failure 409 {object} map[string]string "Меньше 4 игроков"
// @Router /tournaments/{tournamentID}/knockout [get]
func (h *MatchHandler) GetKnockout(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.tournamentService.GetKnockout(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordKnockoutScore godoc
// @Summary Записать счёт матча плей-офф
// @Tags knockout
// @Accept json
// @Produce json
// @Param tournamentID path int true "ID турнира"
// @Param stage path string true "playins, qfs, sfs или final"
// @Param index path int true "Номер матча в стадии (с нуля)"
// @Param body body models.ScoreInput true "Счёт"
// @Success 200 {object} models.KnockoutView
// @Failure 409 {object} map[string]string "Участники матча ещё не определены"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/knockout/{stage}/{index}/score [put]
func (h *MatchHandler) RecordKnockoutScore(w http.ResponseWriter, r *http.Request) {
	id, ref, ok := knockoutMatchParams(w, r)
	if !ok {
		return
	}

	var input models.ScoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.tournamentService.RecordKnockoutScore(r.Context(), id, ref, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ClearKnockoutScore godoc
// @Summary Удалить счёт матча плей-офф
// @Tags knockout
// @Produce json
// @Param tournamentID path int true "ID турнира"
// @Param stage path string true "playins, qfs, sfs или final"
// @Param index path int true "Номер матча в стадии (с нуля)"
// @Success 200 {object} models.KnockoutView
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/knockout/{stage}/{index}/score [delete]
func (h *MatchHandler) ClearKnockoutScore(w http.ResponseWriter, r *http.Request) {
	id, ref, ok := knockoutMatchParams(w, r)
	if !ok {
		return
	}

	view, err := h.tournamentService.ClearKnockoutScore(r.Context(), id, ref)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func groupMatchParams(w http.ResponseWriter, r *http.Request) (id, index int, ok bool) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return 0, 0, false
	}
	index, err = getIndexFromURL(r, "index")
	if err != nil {
		badRequestResponse(w, r, err)
		return 0, 0, false
	}
	return id, index, true
}

func knockoutMatchParams(w http.ResponseWriter, r *http.Request) (int, brackets.MatchRef, bool) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return 0, brackets.MatchRef{}, false
	}
	stage, err := brackets.ParseStage(chi.URLParam(r, "stage"))
	if err != nil {
		badRequestResponse(w, r, err)
		return 0, brackets.MatchRef{}, false
	}
	index, err := getIndexFromURL(r, "index")
	if err != nil {
		badRequestResponse(w, r, err)
		return 0, brackets.MatchRef{}, false
	}
	return id, brackets.MatchRef{Stage: stage, Index: index}, true
}
