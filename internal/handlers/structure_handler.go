package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/learnhub/curriculum/internal/models"
	"go.uber.org/zap"
)

// StructureService is the interface that wraps read access to the assembled curriculum.
type StructureService interface {
	// Method BuildTree assemble the course / module / subject / lesson and test tree.
	//
	// If "courseID" is nil every course is returned, otherwise only that course.
	// An unknown course gives an error wrapping models.ErrNotFound.
	BuildTree(ctx context.Context, courseID *int) ([]models.TreeNode, error)
	// Method ScopeOrder retrieve the stored members of an ordered scope sorted by position.
	ScopeOrder(ctx context.Context, kind models.RelationKind, scopeID int) ([]models.OrderedMember, error)
}

// ReorderService is the interface that wraps drag and drop reordering of ordered scopes.
type ReorderService interface {
	// Method Reorder move a member of a scope onto the index of another member and persist the scope densely.
	//
	// A nil event or a drop onto itself changes nothing. Rejected moves return *models.ValidationError,
	// a scope that is already saving returns models.ErrReorderInProgress and write failures *models.PersistenceError.
	Reorder(ctx context.Context, kind models.RelationKind, scopeID int, event *models.DragEvent) (*models.ReorderResult, error)
	// Method Status return the saving flag, last error and current order of a scope.
	Status(kind models.RelationKind, scopeID int) models.ReorderStatus
}

// AssociationService is the interface that wraps membership editing of the curriculum.
type AssociationService interface {
	// Method ListAvailable retrieve items of "kind" that are not yet attached to the scope.
	ListAvailable(ctx context.Context, kind models.NodeType, scopeID int) ([]models.AvailableItem, error)
	// Method Associate attach items of "kind" to the scope.
	Associate(ctx context.Context, kind models.NodeType, scopeID int, ids []int) error
	// Method Disassociate detach one item of "kind" from the scope without deleting it.
	Disassociate(ctx context.Context, kind models.NodeType, scopeID, memberID int) error
	// Method CreateModule add a module at the end of its course.
	CreateModule(ctx context.Context, req *models.CreateModuleRequest) (*models.Module, error)
	// Method CreateLesson add a lesson at the end of its module.
	CreateLesson(ctx context.Context, req *models.CreateLessonRequest) (*models.Lesson, error)
	// Method DeleteModule delete a module and its subject associations.
	DeleteModule(ctx context.Context, id int) error
	// Method DeleteSubject delete a subject and every link to it.
	DeleteSubject(ctx context.Context, id int) error
	// Method DeleteLesson delete a lesson and its subject links.
	DeleteLesson(ctx context.Context, id int) error
}

// ScopeResponse is the ordered content of a scope together with its reorder status
type ScopeResponse struct {
	Kind    models.RelationKind    `json:"kind"`
	ScopeID int                    `json:"scopeId"`
	Members []models.OrderedMember `json:"members"`
	Status  models.ReorderStatus   `json:"status"`
}

// StructureHandler handles HTTP requests for the curriculum structure
type StructureHandler struct {
	BaseHandler
	structure    StructureService
	reorder      ReorderService
	associations AssociationService
}

// NewStructureHandler creates a new structure handler
func NewStructureHandler(structure StructureService, reorder ReorderService, associations AssociationService, logger *zap.Logger) *StructureHandler {
	return &StructureHandler{
		structure:    structure,
		reorder:      reorder,
		associations: associations,
		BaseHandler:  BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all structure handler routes
func (h *StructureHandler) RegisterRoutes(r chi.Router) {
	r.Route("/structure", func(r chi.Router) {
		r.Get("/tree", h.GetTree)
		r.Get("/courses/{id}/tree", h.GetCourseTree)
		r.Route("/scopes/{kind}/{scopeId}", func(r chi.Router) {
			r.Get("/", h.GetScope)
			r.Post("/reorder", h.Reorder)
		})
		r.Get("/available/{type}/{scopeId}", h.ListAvailable)
		r.Route("/associations/{type}/{scopeId}", func(r chi.Router) {
			r.Post("/", h.Associate)
			r.Delete("/{memberId}", h.Disassociate)
		})
		r.Post("/modules", h.CreateModule)
		r.Delete("/modules/{id}", h.DeleteModule)
		r.Post("/lessons", h.CreateLesson)
		r.Delete("/lessons/{id}", h.DeleteLesson)
		r.Delete("/subjects/{id}", h.DeleteSubject)
	})
}

// GetTree handles GET /structure/tree
// @Summary Get the curriculum tree
// @Description Get every course with its modules, subjects, lessons and tests, each level in display order
// @Tags structure
// @Produce json
// @Success 200 {array} models.TreeNode
// @Failure 500 {object} map[string]string
// @Router /structure/tree [get]
func (h *StructureHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.structure.BuildTree(r.Context(), nil)
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, tree)
}

// GetCourseTree handles GET /structure/courses/{id}/tree
// @Summary Get the tree of one course
// @Tags structure
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} models.TreeNode
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /structure/courses/{id}/tree [get]
func (h *StructureHandler) GetCourseTree(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid course ID")
		return
	}

	tree, err := h.structure.BuildTree(r.Context(), &id)
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}
	if len(tree) == 0 {
		h.RespondError(w, http.StatusNotFound, "course not found")
		return
	}

	h.RespondJSON(w, http.StatusOK, tree[0])
}

// GetScope handles GET /structure/scopes/{kind}/{scopeId}
// @Summary Get an ordered scope
// @Description Get the stored order of a scope and the coordinator's saving state for it
// @Tags structure
// @Produce json
// @Param kind path string true "Relation: course-modules, module-subjects or module-lessons"
// @Param scopeId path int true "Course or module ID"
// @Success 200 {object} ScopeResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /structure/scopes/{kind}/{scopeId} [get]
func (h *StructureHandler) GetScope(w http.ResponseWriter, r *http.Request) {
	kind, scopeID, ok := h.scopeParams(w, r)
	if !ok {
		return
	}

	members, err := h.structure.ScopeOrder(r.Context(), kind, scopeID)
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}
	if members == nil {
		members = []models.OrderedMember{}
	}

	h.RespondJSON(w, http.StatusOK, ScopeResponse{
		Kind:    kind,
		ScopeID: scopeID,
		Members: members,
		Status:  h.reorder.Status(kind, scopeID),
	})
}

// Reorder handles POST /structure/scopes/{kind}/{scopeId}/reorder
// @Summary Reorder a scope
// @Description Move the dragged item to the position of the item it was dropped on.
// @Description An empty body or "null" is a drag without drop and changes nothing.
// @Tags structure
// @Accept json
// @Produce json
// @Param kind path string true "Relation: course-modules, module-subjects or module-lessons"
// @Param scopeId path int true "Course or module ID"
// @Param request body models.DragEvent false "Drop event"
// @Success 200 {object} models.ReorderResult
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /structure/scopes/{kind}/{scopeId}/reorder [post]
func (h *StructureHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	kind, scopeID, ok := h.scopeParams(w, r)
	if !ok {
		return
	}

	var event *models.DragEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil && !errors.Is(err, io.EOF) {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.reorder.Reorder(r.Context(), kind, scopeID, event)
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, result)
}

// ListAvailable handles GET /structure/available/{type}/{scopeId}
// @Summary List items that can be attached
// @Description Subjects not in a module, lessons not linked to a subject, or tests not assigned to a subject
// @Tags structure
// @Produce json
// @Param type path string true "Item type: subject, lesson or test"
// @Param scopeId path int true "Module ID for subjects, subject ID for lessons and tests"
// @Success 200 {array} models.AvailableItem
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /structure/available/{type}/{scopeId} [get]
func (h *StructureHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	kind := models.NodeType(chi.URLParam(r, "type"))
	scopeID, ok := intParam(r, "scopeId")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid scope ID")
		return
	}

	items, err := h.associations.ListAvailable(r.Context(), kind, scopeID)
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, items)
}

// Associate handles POST /structure/associations/{type}/{scopeId}
// @Summary Attach items to a scope
// @Description Subjects are appended to the end of the module; tests leave their previous subject
// @Tags structure
// @Accept json
// @Produce json
// @Param type path string true "Item type: subject, lesson or test"
// @Param scopeId path int true "Module ID for subjects, subject ID for lessons and tests"
// @Param request body models.AssociateRequest true "Selected item IDs"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /structure/associations/{type}/{scopeId} [post]
func (h *StructureHandler) Associate(w http.ResponseWriter, r *http.Request) {
	kind := models.NodeType(chi.URLParam(r, "type"))
	scopeID, ok := intParam(r, "scopeId")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid scope ID")
		return
	}

	var req models.AssociateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.associations.Associate(r.Context(), kind, scopeID, req.IDs); err != nil {
		h.RespondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Disassociate handles DELETE /structure/associations/{type}/{scopeId}/{memberId}
// @Summary Detach an item from a scope
// @Tags structure
// @Param type path string true "Item type: subject, lesson or test"
// @Param scopeId path int true "Module ID for subjects, subject ID for lessons and tests"
// @Param memberId path int true "Item ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /structure/associations/{type}/{scopeId}/{memberId} [delete]
func (h *StructureHandler) Disassociate(w http.ResponseWriter, r *http.Request) {
	kind := models.NodeType(chi.URLParam(r, "type"))
	scopeID, ok := intParam(r, "scopeId")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid scope ID")
		return
	}
	memberID, ok := intParam(r, "memberId")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid member ID")
		return
	}

	if err := h.associations.Disassociate(r.Context(), kind, scopeID, memberID); err != nil {
		h.RespondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateModule handles POST /structure/modules
// @Summary Create a module
// @Description Create a module at the end of its course
// @Tags structure
// @Accept json
// @Produce json
// @Param request body models.CreateModuleRequest true "Module creation request"
// @Success 201 {object} models.Module
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /structure/modules [post]
func (h *StructureHandler) CreateModule(w http.ResponseWriter, r *http.Request) {
	var req models.CreateModuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	module, err := h.associations.CreateModule(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, module)
}

// CreateLesson handles POST /structure/lessons
// @Summary Create a lesson
// @Description Create a lesson at the end of its module
// @Tags structure
// @Accept json
// @Produce json
// @Param request body models.CreateLessonRequest true "Lesson creation request"
// @Success 201 {object} models.Lesson
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /structure/lessons [post]
func (h *StructureHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lesson, err := h.associations.CreateLesson(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, lesson)
}

// DeleteModule handles DELETE /structure/modules/{id}
// @Summary Delete a module
// @Description Delete a module and its subject associations; the subjects are kept
// @Tags structure
// @Param id path int true "Module ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /structure/modules/{id} [delete]
func (h *StructureHandler) DeleteModule(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, "invalid module ID", h.associations.DeleteModule)
}

// DeleteLesson handles DELETE /structure/lessons/{id}
// @Summary Delete a lesson
// @Tags structure
// @Param id path int true "Lesson ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /structure/lessons/{id} [delete]
func (h *StructureHandler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, "invalid lesson ID", h.associations.DeleteLesson)
}

// DeleteSubject handles DELETE /structure/subjects/{id}
// @Summary Delete a subject
// @Description Delete a subject, remove it from every module and detach its tests
// @Tags structure
// @Param id path int true "Subject ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /structure/subjects/{id} [delete]
func (h *StructureHandler) DeleteSubject(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, "invalid subject ID", h.associations.DeleteSubject)
}

func (h *StructureHandler) deleteByID(w http.ResponseWriter, r *http.Request, invalid string, del func(context.Context, int) error) {
	id, ok := intParam(r, "id")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, invalid)
		return
	}

	if err := del(r.Context(), id); err != nil {
		h.RespondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StructureHandler) scopeParams(w http.ResponseWriter, r *http.Request) (models.RelationKind, int, bool) {
	kind := models.RelationKind(chi.URLParam(r, "kind"))
	if !kind.IsValid() {
		h.RespondError(w, http.StatusBadRequest, "invalid relation kind")
		return "", 0, false
	}
	scopeID, ok := intParam(r, "scopeId")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid scope ID")
		return "", 0, false
	}
	return kind, scopeID, true
}
