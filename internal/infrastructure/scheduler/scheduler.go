package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is a recurring maintenance job. Run returns how many rows it
// affected so the scheduler can log sweep sizes.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) (int64, error)
}

// TaskResult records the outcome of the most recent run of a task
type TaskResult struct {
	Name       string
	RanAt      time.Time
	Duration   time.Duration
	Affected   int64
	Error      string
	TotalRuns  int
	TotalFails int
}

// Scheduler runs periodic housekeeping tasks, each on its own ticker.
type Scheduler struct {
	tasks  []Task
	logger *zap.Logger

	mu      sync.Mutex
	results map[string]*TaskResult
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// New creates a scheduler with the given tasks
func New(logger *zap.Logger, tasks ...Task) *Scheduler {
	return &Scheduler{
		tasks:   tasks,
		logger:  logger,
		results: make(map[string]*TaskResult),
	}
}

// Start launches one goroutine per task. Tasks with a non-positive
// interval are skipped.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running = true

	for _, task := range s.tasks {
		if task.Interval <= 0 {
			s.logger.Info("Housekeeping task disabled", zap.String("task", task.Name))
			continue
		}
		s.wg.Add(1)
		go s.loop(ctx, task)
		s.logger.Info("Housekeeping task scheduled",
			zap.String("task", task.Name),
			zap.Duration("interval", task.Interval))
	}
}

// Stop cancels all task loops and waits for in-flight runs to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
	s.logger.Info("Housekeeping scheduler stopped")
}

// RunNow executes the named task once, outside its schedule
func (s *Scheduler) RunNow(ctx context.Context, name string) (int64, error) {
	for _, task := range s.tasks {
		if task.Name == name {
			return s.execute(ctx, task)
		}
	}
	return 0, ErrUnknownTask
}

// LastResult returns the most recent outcome of the named task
func (s *Scheduler) LastResult(name string) (TaskResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result, ok := s.results[name]
	if !ok {
		return TaskResult{}, false
	}
	return *result, true
}

func (s *Scheduler) loop(ctx context.Context, task Task) {
	defer s.wg.Done()

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.execute(ctx, task)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, task Task) (int64, error) {
	started := time.Now()
	affected, err := task.Run(ctx)
	elapsed := time.Since(started)

	s.mu.Lock()
	result, ok := s.results[task.Name]
	if !ok {
		result = &TaskResult{Name: task.Name}
		s.results[task.Name] = result
	}
	result.RanAt = started
	result.Duration = elapsed
	result.Affected = affected
	result.TotalRuns++
	if err != nil {
		result.Error = err.Error()
		result.TotalFails++
	} else {
		result.Error = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("Housekeeping task failed",
			zap.String("task", task.Name),
			zap.Duration("duration", elapsed),
			zap.Error(err))
		return affected, err
	}

	if affected > 0 {
		s.logger.Info("Housekeeping task completed",
			zap.String("task", task.Name),
			zap.Int64("affected", affected),
			zap.Duration("duration", elapsed))
	}
	return affected, nil
}
