package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/catalog"
	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/domain"
	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionHandler exposes the draft engine's operation surface over HTTP.
// Engine falsy returns map to 404 (unknown id / no active draft); pause and
// resume no-ops map to 409.
type SessionHandler struct {
	sessions session.SessionService
	resolver catalog.Resolver
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions session.SessionService, resolver catalog.Resolver) *SessionHandler {
	return &SessionHandler{sessions: sessions, resolver: resolver}
}

// --- DTOs for API (Data Transfer Objects) ---

type StartDraftRequest struct {
	Name string `json:"name"`
}

type RenameDraftRequest struct {
	Name string `json:"name"`
}

type AddExerciseRequest struct {
	Name      string `json:"name" binding:"required"`
	LibraryID string `json:"libraryId"`
	Type      string `json:"type"`
}

type TextItemRequest struct {
	Text string `json:"text" binding:"required"`
}

type UpdateItemRequest struct {
	Name *string `json:"name"`
	Text *string `json:"text"`
}

// AddSetRequest carries weight/reps as optional numeric strings; an absent or
// empty field means "not yet entered".
type AddSetRequest struct {
	Weight *string `json:"weight"`
	Reps   *string `json:"reps"`
}

// UpdateSetRequest follows the uniform patch rule: absent fields are left
// unchanged, empty strings clear the field back to unset.
type UpdateSetRequest struct {
	Weight *string `json:"weight"`
	Reps   *string `json:"reps"`
	Note   *string `json:"note"`
}

type NoteRequest struct {
	Text string `json:"text" binding:"required"`
}

type SetResponse struct {
	ID        string               `json:"id"`
	Number    int                  `json:"number"` // derived, never stored
	Weight    domain.OptionalFloat `json:"weight"`
	Reps      domain.OptionalInt   `json:"reps"`
	Note      string               `json:"note,omitempty"`
	CreatedAt int64                `json:"createdAt"`
	Notes     []domain.WorkoutNote `json:"notes,omitempty"`
}

type ItemResponse struct {
	ID        string               `json:"id"`
	Kind      domain.ItemKind      `json:"kind"`
	CreatedAt int64                `json:"createdAt"`
	Name      string               `json:"name,omitempty"`
	LibraryID string               `json:"libraryId,omitempty"`
	Type      string               `json:"type,omitempty"`
	Status    string               `json:"status,omitempty"`
	Sets      []SetResponse        `json:"sets,omitempty"`
	Notes     []domain.WorkoutNote `json:"notes,omitempty"`
	Text      string               `json:"text,omitempty"`
}

type DraftResponse struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	StartedAt      int64          `json:"startedAt"`
	PausedAt       *int64         `json:"pausedAt,omitempty"`
	LastActionAt   int64          `json:"lastActionAt"`
	ElapsedSeconds int64          `json:"elapsedSeconds"`
	Items          []ItemResponse `json:"items"`
}

// MapItemToResponse converts a domain.WorkoutItem to ItemResponse DTO.
func MapItemToResponse(item *domain.WorkoutItem) ItemResponse {
	resp := ItemResponse{
		ID:        item.ID,
		Kind:      item.Kind,
		CreatedAt: item.CreatedAt,
		Text:      item.Text,
	}
	if item.IsExercise() {
		ex := item.Exercise
		resp.Name = ex.Name
		resp.LibraryID = ex.LibraryID
		resp.Type = ex.Type
		resp.Status = string(ex.Status)
		resp.Notes = ex.Notes
		resp.Sets = make([]SetResponse, len(ex.Sets))
		for i, set := range ex.Sets {
			resp.Sets[i] = SetResponse{
				ID:        set.ID,
				Number:    ex.SetOrdinal(i),
				Weight:    set.Weight,
				Reps:      set.Reps,
				Note:      set.Note,
				CreatedAt: set.CreatedAt,
				Notes:     set.Notes,
			}
		}
	}
	return resp
}

// MapDraftToResponse converts a domain.WorkoutDraft to DraftResponse DTO.
func MapDraftToResponse(draft *domain.WorkoutDraft, elapsedSeconds int64) DraftResponse {
	items := make([]ItemResponse, len(draft.Items))
	for i := range draft.Items {
		items[i] = MapItemToResponse(&draft.Items[i])
	}
	return DraftResponse{
		ID:             draft.ID,
		Name:           draft.Name,
		StartedAt:      draft.StartedAt,
		PausedAt:       draft.PausedAt,
		LastActionAt:   draft.LastActionAt,
		ElapsedSeconds: elapsedSeconds,
		Items:          items,
	}
}

// --- Optional field parsing ---

func parseOptionalFloat(raw *string) (domain.OptionalFloat, bool) {
	if raw == nil || *raw == "" {
		return domain.OptionalFloat{}, true
	}
	v, err := strconv.ParseFloat(*raw, 64)
	if err != nil {
		return domain.OptionalFloat{}, false
	}
	return domain.Float(v), true
}

func parseOptionalInt(raw *string) (domain.OptionalInt, bool) {
	if raw == nil || *raw == "" {
		return domain.OptionalInt{}, true
	}
	v, err := strconv.Atoi(*raw)
	if err != nil {
		return domain.OptionalInt{}, false
	}
	return domain.Int(v), true
}

// --- Draft lifecycle handlers ---

func (h *SessionHandler) StartDraft(c *gin.Context) {
	var req StartDraftRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	draftID := h.sessions.StartDraft(req.Name)
	c.JSON(http.StatusCreated, gin.H{"draftId": draftID})
}

func (h *SessionHandler) RenameDraft(c *gin.Context) {
	var req RenameDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if !h.sessions.SetDraftName(req.Name) {
		abortWithError(c, http.StatusNotFound, "No active draft")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) GetDraft(c *gin.Context) {
	draft := h.sessions.Draft()
	if draft == nil {
		abortWithError(c, http.StatusNotFound, "No active draft")
		return
	}
	c.JSON(http.StatusOK, MapDraftToResponse(draft, h.sessions.ElapsedSeconds()))
}

func (h *SessionHandler) ClearDraft(c *gin.Context) {
	h.sessions.ClearDraft()
	c.Status(http.StatusNoContent)
}

// --- Item handlers ---

func (h *SessionHandler) AddExercise(c *gin.Context) {
	var req AddExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	libraryID, exerciseType := req.LibraryID, req.Type
	if libraryID == "" {
		userTag, _ := getUserTagFromContext(c)
		res, err := h.resolver.Resolve(c.Request.Context(), req.Name, userTag)
		if err != nil {
			// The catalog is a collaborator, not a gatekeeper: log and keep
			// the exercise without a library reference.
			log.Printf("WARN: Catalog resolution failed for %q: %v", req.Name, err)
		} else {
			libraryID = res.ID
			if exerciseType == "" {
				exerciseType = res.ResolvedType
			}
		}
	}

	itemID := h.sessions.AddExercise(req.Name, libraryID, exerciseType)
	if itemID == "" {
		abortWithError(c, http.StatusNotFound, "No active draft")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"itemId": itemID})
}

func (h *SessionHandler) AddNote(c *gin.Context) {
	h.addTextItem(c, h.sessions.AddNote)
}

func (h *SessionHandler) AddCustom(c *gin.Context) {
	h.addTextItem(c, h.sessions.AddCustom)
}

func (h *SessionHandler) addTextItem(c *gin.Context, add func(string) string) {
	var req TextItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	itemID := add(req.Text)
	if itemID == "" {
		abortWithError(c, http.StatusNotFound, "No active draft")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"itemId": itemID})
}

func (h *SessionHandler) UpdateItem(c *gin.Context) {
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	patch := domain.ItemPatch{Name: req.Name, Text: req.Text}
	if !h.sessions.UpdateItem(c.Param("itemId"), patch) {
		abortWithError(c, http.StatusNotFound, "Item not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) CompleteItem(c *gin.Context) {
	if !h.sessions.CompleteItem(c.Param("itemId")) {
		abortWithError(c, http.StatusNotFound, "Exercise item not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) DeleteItem(c *gin.Context) {
	if !h.sessions.DeleteItem(c.Param("itemId")) {
		abortWithError(c, http.StatusNotFound, "Item not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) GetExercise(c *gin.Context) {
	item := h.sessions.GetExercise(c.Param("exerciseId"))
	if item == nil {
		abortWithError(c, http.StatusNotFound, "Exercise not found")
		return
	}
	c.JSON(http.StatusOK, MapItemToResponse(item))
}

// --- Set handlers ---

func (h *SessionHandler) AddSet(c *gin.Context) {
	var req AddSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	weight, ok := parseOptionalFloat(req.Weight)
	if !ok {
		abortWithError(c, http.StatusBadRequest, "Invalid weight value")
		return
	}
	reps, ok := parseOptionalInt(req.Reps)
	if !ok {
		abortWithError(c, http.StatusBadRequest, "Invalid reps value")
		return
	}

	setID := h.sessions.AddExerciseSet(c.Param("exerciseId"), weight, reps)
	if setID == "" {
		abortWithError(c, http.StatusNotFound, "Exercise not found")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"setId": setID})
}

func (h *SessionHandler) UpdateSet(c *gin.Context) {
	var req UpdateSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var patch domain.SetPatch
	if req.Weight != nil {
		weight, ok := parseOptionalFloat(req.Weight)
		if !ok {
			abortWithError(c, http.StatusBadRequest, "Invalid weight value")
			return
		}
		patch.Weight = &weight
	}
	if req.Reps != nil {
		reps, ok := parseOptionalInt(req.Reps)
		if !ok {
			abortWithError(c, http.StatusBadRequest, "Invalid reps value")
			return
		}
		patch.Reps = &reps
	}
	patch.Note = req.Note

	if !h.sessions.UpdateExerciseSet(c.Param("exerciseId"), c.Param("setId"), patch) {
		abortWithError(c, http.StatusNotFound, "Set not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Note handlers ---

func (h *SessionHandler) AddGeneralNote(c *gin.Context) {
	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	noteID := h.sessions.AddExerciseGeneralNote(c.Param("exerciseId"), req.Text)
	if noteID == "" {
		abortWithError(c, http.StatusNotFound, "Exercise not found")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"noteId": noteID})
}

func (h *SessionHandler) UpdateGeneralNote(c *gin.Context) {
	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if !h.sessions.UpdateExerciseGeneralNote(c.Param("exerciseId"), c.Param("noteId"), req.Text) {
		abortWithError(c, http.StatusNotFound, "Note not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) RemoveGeneralNote(c *gin.Context) {
	if !h.sessions.RemoveExerciseGeneralNote(c.Param("exerciseId"), c.Param("noteId")) {
		abortWithError(c, http.StatusNotFound, "Note not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) AddSetNote(c *gin.Context) {
	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	noteID := h.sessions.AddExerciseSetNote(c.Param("exerciseId"), c.Param("setId"), req.Text)
	if noteID == "" {
		abortWithError(c, http.StatusNotFound, "Set not found")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"noteId": noteID})
}

func (h *SessionHandler) UpdateSetNote(c *gin.Context) {
	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if !h.sessions.UpdateExerciseSetNote(c.Param("exerciseId"), c.Param("setId"), c.Param("noteId"), req.Text) {
		abortWithError(c, http.StatusNotFound, "Note not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) RemoveSetNote(c *gin.Context) {
	if !h.sessions.RemoveExerciseSetNote(c.Param("exerciseId"), c.Param("setId"), c.Param("noteId")) {
		abortWithError(c, http.StatusNotFound, "Note not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Timer, undo, finalization, history ---

func (h *SessionHandler) Elapsed(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"elapsedSeconds": h.sessions.ElapsedSeconds()})
}

func (h *SessionHandler) Pause(c *gin.Context) {
	if !h.sessions.Pause() {
		abortWithError(c, http.StatusConflict, "No running draft to pause")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) Resume(c *gin.Context) {
	if !h.sessions.Resume() {
		abortWithError(c, http.StatusConflict, "Draft is not paused")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) Undo(c *gin.Context) {
	if !h.sessions.UndoLastAction() {
		abortWithError(c, http.StatusNotFound, "Nothing to undo")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) Finish(c *gin.Context) {
	savedID := h.sessions.FinishAndSave()
	if savedID == "" {
		abortWithError(c, http.StatusNotFound, "No active draft")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"savedId": savedID})
}

func (h *SessionHandler) GetHistory(c *gin.Context) {
	history := h.sessions.History()
	if history == nil {
		history = []domain.WorkoutSaved{}
	}
	c.JSON(http.StatusOK, history)
}

func (h *SessionHandler) ClearHistory(c *gin.Context) {
	h.sessions.ClearHistory()
	c.Status(http.StatusNoContent)
}
