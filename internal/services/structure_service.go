package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/learnhub/curriculum/internal/models"
	"github.com/learnhub/curriculum/internal/ordering"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CourseRepository is the interface that wraps methods for Courses table data access
type CourseRepository interface {
	// Method GetAll retrieve courses sorted by title.
	//
	// If "courseID" is not nil only that course is returned, an unknown id gives an empty slice.
	GetAll(ctx context.Context, courseID *int) ([]models.Course, error)
	// Method ExistsByID reports whether a course with the given id exists.
	ExistsByID(ctx context.Context, id int) (bool, error)
}

// ModuleRepository is the interface that wraps methods for Modules table data access
type ModuleRepository interface {
	// Method GetAll retrieve modules sorted by course and position.
	//
	// If "courseID" is not nil only the modules of that course are returned.
	GetAll(ctx context.Context, courseID *int) ([]models.Module, error)
	// Method GetByID retrieve a module by its id.
	//
	// If the module does not exist, an error wrapping models.ErrNotFound is returned.
	GetByID(ctx context.Context, id int) (*models.Module, error)
	// Method Create insert a module at the position set on the model and fill its id.
	Create(ctx context.Context, module *models.Module) error
	// Method Delete remove a module together with its subject associations.
	//
	// Subjects themselves are kept. If the module does not exist, an error wrapping models.ErrNotFound is returned.
	Delete(ctx context.Context, id int) error
}

// SubjectRepository is the interface that wraps methods for Subjects table data access
type SubjectRepository interface {
	// Method GetAll retrieve all subjects sorted by name.
	GetAll(ctx context.Context) ([]models.Subject, error)
	// Method ExistsByID reports whether a subject with the given id exists.
	ExistsByID(ctx context.Context, id int) (bool, error)
	// Method Delete remove a subject, its module and lesson links, and detach its tests.
	Delete(ctx context.Context, id int) error
}

// LessonRepository is the interface that wraps methods for Lessons table data access
type LessonRepository interface {
	// Method GetAll retrieve all lessons sorted by module and position.
	GetAll(ctx context.Context) ([]models.Lesson, error)
	// Method GetByID retrieve a lesson by its id.
	//
	// If the lesson does not exist, an error wrapping models.ErrNotFound is returned.
	GetByID(ctx context.Context, id int) (*models.Lesson, error)
	// Method Create insert a lesson at the position set on the model and fill its id.
	Create(ctx context.Context, lesson *models.Lesson) error
	// Method Delete remove a lesson together with its subject links.
	Delete(ctx context.Context, id int) error
}

// ModuleSubjectRepository is the interface that wraps methods for ModuleSubjects table data access
type ModuleSubjectRepository interface {
	// Method GetAll retrieve associations sorted by module and position.
	//
	// If "courseID" is not nil only associations of that course's modules are returned.
	GetAll(ctx context.Context, courseID *int) ([]models.ModuleSubject, error)
	// Method GetSubjectIDs retrieve ids of the subjects attached to a module.
	GetSubjectIDs(ctx context.Context, moduleID int) ([]int, error)
	// Method Create insert associations with the positions set on them.
	Create(ctx context.Context, associations []models.ModuleSubject) error
	// Method Delete detach a subject from a module.
	Delete(ctx context.Context, moduleID, subjectID int) error
}

// SubjectLessonRepository is the interface that wraps methods for SubjectLessons table data access
type SubjectLessonRepository interface {
	// Method GetAll retrieve all subject lesson links.
	GetAll(ctx context.Context) ([]models.SubjectLesson, error)
	// Method GetLessonIDs retrieve ids of the lessons linked to a subject.
	GetLessonIDs(ctx context.Context, subjectID int) ([]int, error)
	// Method Create link lessons to a subject.
	Create(ctx context.Context, subjectID int, lessonIDs []int) error
	// Method Delete unlink a lesson from a subject.
	Delete(ctx context.Context, subjectID, lessonID int) error
}

// TestRepository is the interface that wraps methods for Tests table data access
type TestRepository interface {
	// Method GetAll retrieve all tests sorted by title.
	GetAll(ctx context.Context) ([]models.Test, error)
	// Method AssignSubject point tests to a subject, detaching them from any previous one.
	//
	// If any of the tests does not exist, an error wrapping models.ErrNotFound is returned.
	AssignSubject(ctx context.Context, subjectID int, testIDs []int) error
	// Method ClearSubject detach a test from a subject it currently belongs to.
	ClearSubject(ctx context.Context, subjectID, testID int) error
}

// TreeCache is the interface that wraps methods for assembled tree caching
type TreeCache interface {
	// Method Get return the cached tree for a course filter, the second value is false on a miss.
	Get(ctx context.Context, courseID *int) ([]models.TreeNode, bool, error)
	// Method Set store the tree for a course filter.
	Set(ctx context.Context, courseID *int, nodes []models.TreeNode) error
	// Method Invalidate drop every cached tree.
	Invalidate(ctx context.Context) error
}

type structureService struct {
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

// StructureRepositories groups the repositories the structure services read from
type StructureRepositories struct {
	Courses        CourseRepository
	Modules        ModuleRepository
	Subjects       SubjectRepository
	Lessons        LessonRepository
	ModuleSubjects ModuleSubjectRepository
	SubjectLessons SubjectLessonRepository
	Tests          TestRepository
}

// NewStructureService creates a new structure service.
// "relations" provide the per-scope ordered lists, "cache" may be nil.
func NewStructureService(repos StructureRepositories, relations []OrderedRelation, cache TreeCache, logger *zap.Logger) *structureService {
	return &structureService{
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

// treeData is one consistent read of every table the tree is built from
type treeData struct {
	courses        []models.Course
	modules        []models.Module
	subjects       []models.Subject
	lessons        []models.Lesson
	moduleSubjects []models.ModuleSubject
	subjectLessons []models.SubjectLesson
	tests          []models.Test
}

// BuildTree assembles the curriculum tree.
//
// With a nil courseID every course is returned, otherwise only that course;
// an unknown course gives an error wrapping models.ErrNotFound.
// Associations pointing at missing rows are left out of the tree and logged.
func (s *structureService) BuildTree(ctx context.Context, courseID *int) ([]models.TreeNode, error) {
	if s.cache != nil {
		nodes, ok, err := s.cache.Get(ctx, courseID)
		if err != nil {
			s.logger.Warn("tree cache read failed", zap.Error(err))
		} else if ok {
			return nodes, nil
		}
	}

	data, err := s.load(ctx, courseID)
	if err != nil {
		s.logger.Error("failed to load structure", zap.Error(err))
		return nil, fmt.Errorf("failed to load structure: %w", err)
	}

	if courseID != nil && len(data.courses) == 0 {
		return nil, fmt.Errorf("course %d: %w", *courseID, models.ErrNotFound)
	}

	nodes := s.assemble(data)

	if s.cache != nil {
		if err := s.cache.Set(ctx, courseID, nodes); err != nil {
			s.logger.Warn("tree cache write failed", zap.Error(err))
		}
	}

	return nodes, nil
}

// load reads all tables concurrently; any failure fails the whole read
func (s *structureService) load(ctx context.Context, courseID *int) (*treeData, error) {
	var data treeData
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		data.courses, err = s.courses.GetAll(ctx, courseID)
		return err
	})
	g.Go(func() (err error) {
		data.modules, err = s.modules.GetAll(ctx, courseID)
		return err
	})
	g.Go(func() (err error) {
		data.subjects, err = s.subjects.GetAll(ctx)
		return err
	})
	g.Go(func() (err error) {
		data.lessons, err = s.lessons.GetAll(ctx)
		return err
	})
	g.Go(func() (err error) {
		data.moduleSubjects, err = s.moduleSubjects.GetAll(ctx, courseID)
		return err
	})
	g.Go(func() (err error) {
		data.subjectLessons, err = s.subjectLessons.GetAll(ctx)
		return err
	})
	g.Go(func() (err error) {
		data.tests, err = s.tests.GetAll(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

func (s *structureService) assemble(data *treeData) []models.TreeNode {
	subjects := make(map[int]models.Subject, len(data.subjects))
	for _, subject := range data.subjects {
		subjects[subject.ID] = subject
	}
	lessons := make(map[int]models.Lesson, len(data.lessons))
	for _, lesson := range data.lessons {
		lessons[lesson.ID] = lesson
	}

	lessonsBySubject := make(map[int][]models.Lesson)
	for _, link := range data.subjectLessons {
		lesson, ok := lessons[link.LessonID]
		if !ok {
			s.integrityWarning("subject_lessons", "lesson", link.LessonID, zap.Int("subject_id", link.SubjectID))
			continue
		}
		if _, ok := subjects[link.SubjectID]; !ok {
			s.integrityWarning("subject_lessons", "subject", link.SubjectID, zap.Int("lesson_id", link.LessonID))
			continue
		}
		lessonsBySubject[link.SubjectID] = append(lessonsBySubject[link.SubjectID], lesson)
	}

	testsBySubject := make(map[int][]models.Test)
	for _, test := range data.tests {
		if test.SubjectID == nil {
			continue
		}
		if _, ok := subjects[*test.SubjectID]; !ok {
			s.integrityWarning("tests", "subject", *test.SubjectID, zap.Int("test_id", test.ID))
			continue
		}
		testsBySubject[*test.SubjectID] = append(testsBySubject[*test.SubjectID], test)
	}

	modules := make(map[int]bool, len(data.modules))
	modulesByCourse := make(map[int][]models.Module)
	for _, module := range data.modules {
		modules[module.ID] = true
		modulesByCourse[module.CourseID] = append(modulesByCourse[module.CourseID], module)
	}

	associationsByModule := make(map[int][]models.ModuleSubject)
	for _, ms := range data.moduleSubjects {
		if !modules[ms.ModuleID] {
			s.integrityWarning("module_subjects", "module", ms.ModuleID, zap.Int("subject_id", ms.SubjectID))
			continue
		}
		if _, ok := subjects[ms.SubjectID]; !ok {
			s.integrityWarning("module_subjects", "subject", ms.SubjectID, zap.Int("module_id", ms.ModuleID))
			continue
		}
		associationsByModule[ms.ModuleID] = append(associationsByModule[ms.ModuleID], ms)
	}

	courses := slices.Clone(data.courses)
	slices.SortStableFunc(courses, func(a, b models.Course) int {
		if c := strings.Compare(a.Title, b.Title); c != 0 {
			return c
		}
		return a.ID - b.ID
	})

	tree := make([]models.TreeNode, 0, len(courses))
	for _, course := range courses {
		courseNode := models.TreeNode{
			ID:       course.ID,
			Type:     models.NodeTypeCourse,
			Title:    course.Title,
			Children: []models.TreeNode{},
		}

		courseModules := modulesByCourse[course.ID]
		slices.SortStableFunc(courseModules, func(a, b models.Module) int {
			return byPosition(a.Position, a.ID, b.Position, b.ID)
		})

		for _, module := range courseModules {
			moduleNode := models.TreeNode{
				ID:       module.ID,
				Type:     models.NodeTypeModule,
				Title:    module.Title,
				ParentID: intPtr(course.ID),
				ScopeID:  intPtr(course.ID),
				Position: intPtr(module.Position),
				Children: []models.TreeNode{},
			}

			associations := associationsByModule[module.ID]
			slices.SortStableFunc(associations, func(a, b models.ModuleSubject) int {
				return byPosition(a.Position, a.ID, b.Position, b.ID)
			})

			for _, ms := range associations {
				subject := subjects[ms.SubjectID]
				moduleNode.Children = append(moduleNode.Children, subjectNode(
					subject, module.ID, ms.Position, lessonsBySubject[subject.ID], testsBySubject[subject.ID],
				))
			}

			courseNode.Children = append(courseNode.Children, moduleNode)
		}

		tree = append(tree, courseNode)
	}

	return tree
}

func subjectNode(subject models.Subject, moduleID, position int, lessons []models.Lesson, tests []models.Test) models.TreeNode {
	node := models.TreeNode{
		ID:       subject.ID,
		Type:     models.NodeTypeSubject,
		Title:    subject.Name,
		ParentID: intPtr(moduleID),
		ScopeID:  intPtr(moduleID),
		Position: intPtr(position),
		Children: make([]models.TreeNode, 0, len(lessons)+len(tests)),
	}

	lessons = slices.Clone(lessons)
	// Lessons are ordered within their own module, so lessons of one module stay together
	slices.SortStableFunc(lessons, func(a, b models.Lesson) int {
		if a.ModuleID != b.ModuleID {
			return a.ModuleID - b.ModuleID
		}
		return byPosition(a.Position, a.ID, b.Position, b.ID)
	})
	for _, lesson := range lessons {
		node.Children = append(node.Children, models.TreeNode{
			ID:       lesson.ID,
			Type:     models.NodeTypeLesson,
			Title:    lesson.Title,
			ParentID: intPtr(subject.ID),
			ScopeID:  intPtr(lesson.ModuleID),
			Position: intPtr(lesson.Position),
			Children: []models.TreeNode{},
		})
	}

	tests = slices.Clone(tests)
	slices.SortStableFunc(tests, func(a, b models.Test) int {
		if c := strings.Compare(a.Title, b.Title); c != 0 {
			return c
		}
		return a.ID - b.ID
	})
	for _, test := range tests {
		node.Children = append(node.Children, models.TreeNode{
			ID:       test.ID,
			Type:     models.NodeTypeTest,
			Title:    test.Title,
			ParentID: intPtr(subject.ID),
			Children: []models.TreeNode{},
		})
	}

	return node
}

// integrityWarning logs an association that references a missing row
func (s *structureService) integrityWarning(table, missing string, id int, fields ...zap.Field) {
	fields = append(fields,
		zap.String("table", table),
		zap.String("missing", missing),
		zap.Int("missing_id", id),
	)
	s.logger.Warn("dropping association to missing row", fields...)
}

// ScopeOrder returns the members of an ordered scope as stored, sorted by position
func (s *structureService) ScopeOrder(ctx context.Context, kind models.RelationKind, scopeID int) ([]models.OrderedMember, error) {
	relation, ok := s.relations[kind]
	if !ok {
		return nil, models.NewValidationError("unknown relation %q", kind)
	}

	members, err := relation.ListOrdered(ctx, scopeID)
	if err != nil {
		s.logger.Error("failed to list scope", zap.Error(err), zap.String("kind", string(kind)), zap.Int("scope_id", scopeID))
		return nil, fmt.Errorf("failed to list scope: %w", err)
	}

	ordering.Sort(members)
	return members, nil
}

func byPosition(posA, idA, posB, idB int) int {
	if posA != posB {
		return posA - posB
	}
	return idA - idB
}

func intPtr(v int) *int {
	return &v
}
