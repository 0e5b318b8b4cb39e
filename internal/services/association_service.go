package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/learnhub/curriculum/internal/models"
	"go.uber.org/zap"
)

type associationService struct {
	courses        CourseRepository
	modules        ModuleRepository
	subjects       SubjectRepository
	lessons        LessonRepository
	moduleSubjects ModuleSubjectRepository
	subjectLessons SubjectLessonRepository
	tests          TestRepository
	relations      map[models.RelationKind]OrderedRelation
	cache          TreeCache
	logger         *zap.Logger
}

// NewAssociationService creates a new association service.
// "relations" must contain the course-modules, module-subjects and module-lessons adapters.
func NewAssociationService(repos StructureRepositories, relations []OrderedRelation, cache TreeCache, logger *zap.Logger) *associationService {
	return &associationService{
		courses:        repos.Courses,
		modules:        repos.Modules,
		subjects:       repos.Subjects,
		lessons:        repos.Lessons,
		moduleSubjects: repos.ModuleSubjects,
		subjectLessons: repos.SubjectLessons,
		tests:          repos.Tests,
		relations:      relationMap(relations),
		cache:          cache,
		logger:         logger,
	}
}

// ListAvailable returns the items of a type that can still be attached to a scope.
//
// Subjects are listed for a module scope, lessons and tests for a subject scope.
// A test already assigned to another subject is available, assigning it moves it.
func (s *associationService) ListAvailable(ctx context.Context, kind models.NodeType, scopeID int) ([]models.AvailableItem, error) {
	if err := s.checkScope(ctx, kind, scopeID); err != nil {
		return nil, err
	}

	items := []models.AvailableItem{}

	switch kind {
	case models.NodeTypeSubject:
		attached, err := s.moduleSubjects.GetSubjectIDs(ctx, scopeID)
		if err != nil {
			return nil, s.fail("failed to get module subjects", err, zap.Int("module_id", scopeID))
		}
		subjects, err := s.subjects.GetAll(ctx)
		if err != nil {
			return nil, s.fail("failed to get subjects", err)
		}
		for _, subject := range subjects {
			if !slices.Contains(attached, subject.ID) {
				items = append(items, models.AvailableItem{ID: subject.ID, Type: kind, Title: subject.Name})
			}
		}

	case models.NodeTypeLesson:
		linked, err := s.subjectLessons.GetLessonIDs(ctx, scopeID)
		if err != nil {
			return nil, s.fail("failed to get subject lessons", err, zap.Int("subject_id", scopeID))
		}
		lessons, err := s.lessons.GetAll(ctx)
		if err != nil {
			return nil, s.fail("failed to get lessons", err)
		}
		for _, lesson := range lessons {
			if !slices.Contains(linked, lesson.ID) {
				items = append(items, models.AvailableItem{ID: lesson.ID, Type: kind, Title: lesson.Title})
			}
		}

	case models.NodeTypeTest:
		tests, err := s.tests.GetAll(ctx)
		if err != nil {
			return nil, s.fail("failed to get tests", err)
		}
		for _, test := range tests {
			if test.SubjectID == nil || *test.SubjectID != scopeID {
				items = append(items, models.AvailableItem{ID: test.ID, Type: kind, Title: test.Title})
			}
		}
	}

	return items, nil
}

// Associate attaches items of a type to a scope.
//
// Subjects are appended to the module after its current last position, in the given order.
// Lessons are linked to the subject. Tests are assigned to the subject, leaving any previous one.
// Empty or duplicated ids and items already attached are rejected before anything is written.
func (s *associationService) Associate(ctx context.Context, kind models.NodeType, scopeID int, ids []int) error {
	if err := validateIDs(ids); err != nil {
		return err
	}
	if err := s.checkScope(ctx, kind, scopeID); err != nil {
		return err
	}

	switch kind {
	case models.NodeTypeSubject:
		if err := s.associateSubjects(ctx, scopeID, ids); err != nil {
			return err
		}

	case models.NodeTypeLesson:
		linked, err := s.subjectLessons.GetLessonIDs(ctx, scopeID)
		if err != nil {
			return s.fail("failed to get subject lessons", err, zap.Int("subject_id", scopeID))
		}
		if err := rejectAttached(kind, ids, linked); err != nil {
			return err
		}
		lessons, err := s.lessons.GetAll(ctx)
		if err != nil {
			return s.fail("failed to get lessons", err)
		}
		known := make([]int, len(lessons))
		for i, lesson := range lessons {
			known[i] = lesson.ID
		}
		if err := rejectUnknown(kind, ids, known); err != nil {
			return err
		}
		if err := s.subjectLessons.Create(ctx, scopeID, ids); err != nil {
			return s.fail("failed to link lessons", err, zap.Int("subject_id", scopeID))
		}

	case models.NodeTypeTest:
		tests, err := s.tests.GetAll(ctx)
		if err != nil {
			return s.fail("failed to get tests", err)
		}
		known := make([]int, len(tests))
		for i, test := range tests {
			known[i] = test.ID
		}
		if err := rejectUnknown(kind, ids, known); err != nil {
			return err
		}
		if err := s.tests.AssignSubject(ctx, scopeID, ids); err != nil {
			return s.fail("failed to assign tests", err, zap.Int("subject_id", scopeID))
		}
	}

	s.invalidate(ctx)
	return nil
}

func (s *associationService) associateSubjects(ctx context.Context, moduleID int, ids []int) error {
	attached, err := s.moduleSubjects.GetSubjectIDs(ctx, moduleID)
	if err != nil {
		return s.fail("failed to get module subjects", err, zap.Int("module_id", moduleID))
	}
	if err := rejectAttached(models.NodeTypeSubject, ids, attached); err != nil {
		return err
	}

	subjects, err := s.subjects.GetAll(ctx)
	if err != nil {
		return s.fail("failed to get subjects", err)
	}
	known := make([]int, len(subjects))
	for i, subject := range subjects {
		known[i] = subject.ID
	}
	if err := rejectUnknown(models.NodeTypeSubject, ids, known); err != nil {
		return err
	}

	relation, err := s.relation(models.RelationModuleSubjects)
	if err != nil {
		return err
	}
	next, err := relation.NextPosition(ctx, moduleID)
	if err != nil {
		return s.fail("failed to get next subject position", err, zap.Int("module_id", moduleID))
	}

	associations := make([]models.ModuleSubject, len(ids))
	for i, id := range ids {
		associations[i] = models.ModuleSubject{ModuleID: moduleID, SubjectID: id, Position: next + i}
	}
	if err := s.moduleSubjects.Create(ctx, associations); err != nil {
		return s.fail("failed to attach subjects", err, zap.Int("module_id", moduleID))
	}

	return nil
}

// Disassociate detaches one item from a scope without deleting the item.
// Remaining positions are left as they are; the next reorder of the scope renumbers them.
func (s *associationService) Disassociate(ctx context.Context, kind models.NodeType, scopeID, memberID int) error {
	if scopeID <= 0 || memberID <= 0 {
		return models.NewValidationError("invalid id")
	}

	var err error
	switch kind {
	case models.NodeTypeSubject:
		err = s.moduleSubjects.Delete(ctx, scopeID, memberID)
	case models.NodeTypeLesson:
		err = s.subjectLessons.Delete(ctx, scopeID, memberID)
	case models.NodeTypeTest:
		err = s.tests.ClearSubject(ctx, scopeID, memberID)
	default:
		return models.NewValidationError("%q items cannot be detached", kind)
	}
	if err != nil {
		return s.fail("failed to detach "+string(kind), err, zap.Int("scope_id", scopeID), zap.Int("member_id", memberID))
	}

	s.invalidate(ctx)
	return nil
}

// CreateModule adds a module at the end of its course
func (s *associationService) CreateModule(ctx context.Context, req *models.CreateModuleRequest) (*models.Module, error) {
	if req == nil || strings.TrimSpace(req.Title) == "" {
		return nil, models.NewValidationError("title is required")
	}
	if req.CourseID <= 0 {
		return nil, models.NewValidationError("courseId is required")
	}

	exists, err := s.courses.ExistsByID(ctx, req.CourseID)
	if err != nil {
		return nil, s.fail("failed to check course", err, zap.Int("course_id", req.CourseID))
	}
	if !exists {
		return nil, fmt.Errorf("course %d: %w", req.CourseID, models.ErrNotFound)
	}

	relation, err := s.relation(models.RelationCourseModules)
	if err != nil {
		return nil, err
	}
	position, err := relation.NextPosition(ctx, req.CourseID)
	if err != nil {
		return nil, s.fail("failed to get next module position", err, zap.Int("course_id", req.CourseID))
	}

	module := &models.Module{
		CourseID:    req.CourseID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Position:    position,
		Required:    req.Required,
	}
	if err := s.modules.Create(ctx, module); err != nil {
		return nil, s.fail("failed to create module", err, zap.Int("course_id", req.CourseID))
	}

	s.invalidate(ctx)
	return module, nil
}

// CreateLesson adds a lesson at the end of its module
func (s *associationService) CreateLesson(ctx context.Context, req *models.CreateLessonRequest) (*models.Lesson, error) {
	if req == nil || strings.TrimSpace(req.Title) == "" {
		return nil, models.NewValidationError("title is required")
	}
	if req.ModuleID <= 0 {
		return nil, models.NewValidationError("moduleId is required")
	}

	if _, err := s.modules.GetByID(ctx, req.ModuleID); err != nil {
		return nil, s.fail("failed to get module", err, zap.Int("module_id", req.ModuleID))
	}

	relation, err := s.relation(models.RelationModuleLessons)
	if err != nil {
		return nil, err
	}
	position, err := relation.NextPosition(ctx, req.ModuleID)
	if err != nil {
		return nil, s.fail("failed to get next lesson position", err, zap.Int("module_id", req.ModuleID))
	}

	lesson := &models.Lesson{
		ModuleID:    req.ModuleID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Position:    position,
	}
	if err := s.lessons.Create(ctx, lesson); err != nil {
		return nil, s.fail("failed to create lesson", err, zap.Int("module_id", req.ModuleID))
	}

	s.invalidate(ctx)
	return lesson, nil
}

// DeleteModule deletes a module and its subject associations; the subjects stay
func (s *associationService) DeleteModule(ctx context.Context, id int) error {
	return s.delete(ctx, models.NodeTypeModule, id, s.modules.Delete)
}

// DeleteSubject deletes a subject from every module, unlinks its lessons and detaches its tests
func (s *associationService) DeleteSubject(ctx context.Context, id int) error {
	return s.delete(ctx, models.NodeTypeSubject, id, s.subjects.Delete)
}

// DeleteLesson deletes a lesson and its subject links
func (s *associationService) DeleteLesson(ctx context.Context, id int) error {
	return s.delete(ctx, models.NodeTypeLesson, id, s.lessons.Delete)
}

func (s *associationService) delete(ctx context.Context, kind models.NodeType, id int, del func(context.Context, int) error) error {
	if id <= 0 {
		return models.NewValidationError("invalid %s id", kind)
	}
	if err := del(ctx, id); err != nil {
		return s.fail("failed to delete "+string(kind), err, zap.Int("id", id))
	}
	s.invalidate(ctx)
	return nil
}

// checkScope validates the item type and makes sure its scope exists
func (s *associationService) checkScope(ctx context.Context, kind models.NodeType, scopeID int) error {
	if scopeID <= 0 {
		return models.NewValidationError("invalid scope id")
	}

	switch kind {
	case models.NodeTypeSubject:
		if _, err := s.modules.GetByID(ctx, scopeID); err != nil {
			return s.fail("failed to get module", err, zap.Int("module_id", scopeID))
		}
	case models.NodeTypeLesson, models.NodeTypeTest:
		exists, err := s.subjects.ExistsByID(ctx, scopeID)
		if err != nil {
			return s.fail("failed to check subject", err, zap.Int("subject_id", scopeID))
		}
		if !exists {
			return fmt.Errorf("subject %d: %w", scopeID, models.ErrNotFound)
		}
	default:
		return models.NewValidationError("%q items cannot be associated", kind)
	}

	return nil
}

func (s *associationService) relation(kind models.RelationKind) (OrderedRelation, error) {
	relation, ok := s.relations[kind]
	if !ok {
		return nil, fmt.Errorf("no ordered relation configured for %s", kind)
	}
	return relation, nil
}

// fail logs a repository failure and wraps it; not found errors are not logged
func (s *associationService) fail(msg string, err error, fields ...zap.Field) error {
	if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error(msg, append(fields, zap.Error(err))...)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func (s *associationService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate tree cache", zap.Error(err))
	}
}

func validateIDs(ids []int) error {
	if len(ids) == 0 {
		return models.NewValidationError("no items selected")
	}
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return models.NewValidationError("invalid id %d", id)
		}
		if seen[id] {
			return models.NewValidationError("id %d is selected more than once", id)
		}
		seen[id] = true
	}
	return nil
}

func rejectAttached(kind models.NodeType, ids, attached []int) error {
	for _, id := range ids {
		if slices.Contains(attached, id) {
			return models.NewValidationError("%s %d is already attached", kind, id)
		}
	}
	return nil
}

func rejectUnknown(kind models.NodeType, ids, known []int) error {
	for _, id := range ids {
		if !slices.Contains(known, id) {
			return fmt.Errorf("%s %d: %w", kind, id, models.ErrNotFound)
		}
	}
	return nil
}
