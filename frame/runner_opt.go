package frame

type (
	RunnerInitializer = func(*Runner)
)

func WithFrameErrorHandleBehavior(behavior ErrBehavior) RunnerInitializer {
	return func(r *Runner) {
		r.frameErrBehavior = behavior
	}
}

// WithSleep replaces the pacing sleep, by default the wall clock's Sleep.
func WithSleep(sleep SleepFunc) RunnerInitializer {
	return func(r *Runner) {
		r.sleep = sleep
	}
}

func WithLogger(logger Logger) RunnerInitializer {
	return func(r *Runner) {
		r.logger = logger
	}
}

func WithTask(task *Task) RunnerInitializer {
	return func(r *Runner) {
		r.tasks = append(r.tasks, task)
	}
}

func WithObserver(observer Observer) RunnerInitializer {
	return func(r *Runner) {
		r.observers = append(r.observers, observer)
	}
}

func WithTickObserver(observer TickObserver) RunnerInitializer {
	return func(r *Runner) {
		r.tickObservers = append(r.tickObservers, observer)
	}
}
