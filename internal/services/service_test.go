package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/learnhub/curriculum/internal/models"
	"github.com/learnhub/curriculum/internal/ordering"
)

// mockCourseRepository is a mock implementation of CourseRepository
type mockCourseRepository struct {
	courses []models.Course
	err     error
}

func (m *mockCourseRepository) GetAll(ctx context.Context, courseID *int) ([]models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Course
	for _, c := range m.courses {
		if courseID == nil || c.ID == *courseID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCourseRepository) ExistsByID(ctx context.Context, id int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return slices.ContainsFunc(m.courses, func(c models.Course) bool { return c.ID == id }), nil
}

// mockModuleRepository is a mock implementation of ModuleRepository
type mockModuleRepository struct {
	modules        []models.Module
	moduleSubjects *mockModuleSubjectRepository
	err            error
}

func (m *mockModuleRepository) GetAll(ctx context.Context, courseID *int) ([]models.Module, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Module
	for _, mod := range m.modules {
		if courseID == nil || mod.CourseID == *courseID {
			out = append(out, mod)
		}
	}
	return out, nil
}

func (m *mockModuleRepository) GetByID(ctx context.Context, id int) (*models.Module, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, mod := range m.modules {
		if mod.ID == id {
			return &mod, nil
		}
	}
	return nil, fmt.Errorf("module not found: %w", models.ErrNotFound)
}

func (m *mockModuleRepository) Create(ctx context.Context, module *models.Module) error {
	if m.err != nil {
		return m.err
	}
	module.ID = 1000 + len(m.modules)
	m.modules = append(m.modules, *module)
	return nil
}

func (m *mockModuleRepository) Delete(ctx context.Context, id int) error {
	if m.err != nil {
		return m.err
	}
	if m.moduleSubjects != nil {
		m.moduleSubjects.rows = slices.DeleteFunc(m.moduleSubjects.rows, func(ms models.ModuleSubject) bool { return ms.ModuleID == id })
	}
	n := len(m.modules)
	m.modules = slices.DeleteFunc(m.modules, func(mod models.Module) bool { return mod.ID == id })
	if len(m.modules) == n {
		return fmt.Errorf("module not found: %w", models.ErrNotFound)
	}
	return nil
}

// mockSubjectRepository is a mock implementation of SubjectRepository
type mockSubjectRepository struct {
	subjects []models.Subject
	deleted  []int
	err      error
}

func (m *mockSubjectRepository) GetAll(ctx context.Context) ([]models.Subject, error) {
	if m.err != nil {
		return nil, m.err
	}
	return slices.Clone(m.subjects), nil
}

func (m *mockSubjectRepository) ExistsByID(ctx context.Context, id int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return slices.ContainsFunc(m.subjects, func(s models.Subject) bool { return s.ID == id }), nil
}

func (m *mockSubjectRepository) Delete(ctx context.Context, id int) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

// mockLessonRepository is a mock implementation of LessonRepository
type mockLessonRepository struct {
	lessons []models.Lesson
	deleted []int
	err     error
}

func (m *mockLessonRepository) GetAll(ctx context.Context) ([]models.Lesson, error) {
	if m.err != nil {
		return nil, m.err
	}
	return slices.Clone(m.lessons), nil
}

func (m *mockLessonRepository) GetByID(ctx context.Context, id int) (*models.Lesson, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, l := range m.lessons {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, fmt.Errorf("lesson not found: %w", models.ErrNotFound)
}

func (m *mockLessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	if m.err != nil {
		return m.err
	}
	lesson.ID = 2000 + len(m.lessons)
	m.lessons = append(m.lessons, *lesson)
	return nil
}

func (m *mockLessonRepository) Delete(ctx context.Context, id int) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

// mockModuleSubjectRepository is a mock implementation of ModuleSubjectRepository
type mockModuleSubjectRepository struct {
	rows []models.ModuleSubject
	err  error
}

func (m *mockModuleSubjectRepository) GetAll(ctx context.Context, courseID *int) ([]models.ModuleSubject, error) {
	if m.err != nil {
		return nil, m.err
	}
	return slices.Clone(m.rows), nil
}

func (m *mockModuleSubjectRepository) GetSubjectIDs(ctx context.Context, moduleID int) ([]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	var ids []int
	for _, ms := range m.rows {
		if ms.ModuleID == moduleID {
			ids = append(ids, ms.SubjectID)
		}
	}
	return ids, nil
}

func (m *mockModuleSubjectRepository) Create(ctx context.Context, associations []models.ModuleSubject) error {
	if m.err != nil {
		return m.err
	}
	for _, ms := range associations {
		ms.ID = 500 + len(m.rows)
		m.rows = append(m.rows, ms)
	}
	return nil
}

func (m *mockModuleSubjectRepository) Delete(ctx context.Context, moduleID, subjectID int) error {
	if m.err != nil {
		return m.err
	}
	n := len(m.rows)
	m.rows = slices.DeleteFunc(m.rows, func(ms models.ModuleSubject) bool {
		return ms.ModuleID == moduleID && ms.SubjectID == subjectID
	})
	if len(m.rows) == n {
		return fmt.Errorf("module subject not found: %w", models.ErrNotFound)
	}
	return nil
}

// mockSubjectLessonRepository is a mock implementation of SubjectLessonRepository
type mockSubjectLessonRepository struct {
	links []models.SubjectLesson
	err   error
}

func (m *mockSubjectLessonRepository) GetAll(ctx context.Context) ([]models.SubjectLesson, error) {
	if m.err != nil {
		return nil, m.err
	}
	return slices.Clone(m.links), nil
}

func (m *mockSubjectLessonRepository) GetLessonIDs(ctx context.Context, subjectID int) ([]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	var ids []int
	for _, l := range m.links {
		if l.SubjectID == subjectID {
			ids = append(ids, l.LessonID)
		}
	}
	return ids, nil
}

func (m *mockSubjectLessonRepository) Create(ctx context.Context, subjectID int, lessonIDs []int) error {
	if m.err != nil {
		return m.err
	}
	for _, id := range lessonIDs {
		m.links = append(m.links, models.SubjectLesson{SubjectID: subjectID, LessonID: id})
	}
	return nil
}

func (m *mockSubjectLessonRepository) Delete(ctx context.Context, subjectID, lessonID int) error {
	if m.err != nil {
		return m.err
	}
	n := len(m.links)
	m.links = slices.DeleteFunc(m.links, func(l models.SubjectLesson) bool {
		return l.SubjectID == subjectID && l.LessonID == lessonID
	})
	if len(m.links) == n {
		return fmt.Errorf("subject lesson not found: %w", models.ErrNotFound)
	}
	return nil
}

// mockTestRepository is a mock implementation of TestRepository
type mockTestRepository struct {
	tests []models.Test
	err   error
}

func (m *mockTestRepository) GetAll(ctx context.Context) ([]models.Test, error) {
	if m.err != nil {
		return nil, m.err
	}
	return slices.Clone(m.tests), nil
}

func (m *mockTestRepository) AssignSubject(ctx context.Context, subjectID int, testIDs []int) error {
	if m.err != nil {
		return m.err
	}
	found := 0
	for i := range m.tests {
		if slices.Contains(testIDs, m.tests[i].ID) {
			id := subjectID
			m.tests[i].SubjectID = &id
			found++
		}
	}
	if found != len(testIDs) {
		return fmt.Errorf("some tests were not found: %w", models.ErrNotFound)
	}
	return nil
}

func (m *mockTestRepository) ClearSubject(ctx context.Context, subjectID, testID int) error {
	if m.err != nil {
		return m.err
	}
	for i := range m.tests {
		if m.tests[i].ID == testID && m.tests[i].SubjectID != nil && *m.tests[i].SubjectID == subjectID {
			m.tests[i].SubjectID = nil
			return nil
		}
	}
	return fmt.Errorf("test not found in subject: %w", models.ErrNotFound)
}

// mockTreeCache is a mock implementation of TreeCache
type mockTreeCache struct {
	mu          sync.Mutex
	trees       map[string][]models.TreeNode
	invalidated int
	err         error
}

func cacheKey(courseID *int) string {
	if courseID == nil {
		return "all"
	}
	return fmt.Sprint(*courseID)
}

func (m *mockTreeCache) Get(ctx context.Context, courseID *int) ([]models.TreeNode, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}
	nodes, ok := m.trees[cacheKey(courseID)]
	return nodes, ok, nil
}

func (m *mockTreeCache) Set(ctx context.Context, courseID *int, nodes []models.TreeNode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.trees == nil {
		m.trees = make(map[string][]models.TreeNode)
	}
	m.trees[cacheKey(courseID)] = nodes
	return nil
}

func (m *mockTreeCache) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated++
	m.trees = nil
	return m.err
}

func (m *mockTreeCache) invalidations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invalidated
}

// positionWrite is one row write observed by mockRelation
type positionWrite struct {
	scopeID  int
	memberID int
	position int
}

var errDuplicatePosition = errors.New("duplicate entry for scope position")

// mockRelation is an in-memory OrderedRelation.
// Like the database it enforces unique positions per scope on every single row write.
type mockRelation struct {
	kind models.RelationKind

	mu        sync.Mutex
	positions map[int]map[int]int
	titles    map[int]string
	writes    []positionWrite
	listCalls int

	// failOnWrite makes the n-th row write (1-based, counted over the mock's lifetime) fail
	failOnWrite int
	listErr     error

	// cancelOnWrite calls cancel before the n-th row write; from then on writes
	// observe their context like ExecContext does
	cancelOnWrite int
	cancel        context.CancelFunc

	// entered is closed on the first SetPositions call, which then waits for release
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newMockRelation(kind models.RelationKind, scopes map[int][]int) *mockRelation {
	r := &mockRelation{
		kind:      kind,
		positions: make(map[int]map[int]int),
		titles:    make(map[int]string),
	}
	for scopeID, ids := range scopes {
		r.positions[scopeID] = make(map[int]int)
		for i, id := range ids {
			r.positions[scopeID][id] = i
		}
	}
	return r
}

func (r *mockRelation) Kind() models.RelationKind {
	return r.kind
}

func (r *mockRelation) ListOrdered(ctx context.Context, scopeID int) ([]models.OrderedMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.listCalls++
	if r.listErr != nil {
		return nil, r.listErr
	}

	var members []models.OrderedMember
	for id, pos := range r.positions[scopeID] {
		members = append(members, models.OrderedMember{MemberID: id, Position: pos, Title: r.titles[id]})
	}
	ordering.Sort(members)
	return members, nil
}

func (r *mockRelation) SetPositions(ctx context.Context, scopeID int, positions []models.PositionAssignment) error {
	if r.entered != nil {
		r.once.Do(func() {
			close(r.entered)
			<-r.release
		})
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	scope := r.positions[scopeID]
	for _, p := range positions {
		if _, ok := scope[p.MemberID]; !ok {
			return fmt.Errorf("member %d: %w", p.MemberID, models.ErrNotFound)
		}
		if r.cancelOnWrite > 0 {
			if len(r.writes)+1 == r.cancelOnWrite {
				r.cancel()
			}
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if r.failOnWrite > 0 && len(r.writes)+1 == r.failOnWrite {
			r.writes = append(r.writes, positionWrite{scopeID: scopeID, memberID: p.MemberID, position: -1})
			return errors.New("connection reset")
		}
		for id, pos := range scope {
			if id != p.MemberID && pos == p.Position {
				return errDuplicatePosition
			}
		}
		scope[p.MemberID] = p.Position
		r.writes = append(r.writes, positionWrite{scopeID: scopeID, memberID: p.MemberID, position: p.Position})
	}
	return nil
}

func (r *mockRelation) NextPosition(ctx context.Context, scopeID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := 0
	for _, pos := range r.positions[scopeID] {
		if pos < ordering.QuarantineFloor && pos+1 > next {
			next = pos + 1
		}
	}
	return next, nil
}

// stored returns the scope's member ids ordered by stored position
func (r *mockRelation) stored(scopeID int) []int {
	members, _ := r.ListOrdered(context.Background(), scopeID)
	return ordering.IDs(members)
}

func (r *mockRelation) storedPositions(scopeID int) map[int]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int]int, len(r.positions[scopeID]))
	for id, pos := range r.positions[scopeID] {
		out[id] = pos
	}
	return out
}

func (r *mockRelation) writeLog() []positionWrite {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.writes)
}
