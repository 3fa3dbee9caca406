package regress

import (
	"fmt"
	"math"

	"goassume/internal/dataset"
	"goassume/internal/logger"
)

// Task is the regression flavour the assumption battery is built around.
type Task int

const (
	TaskLinear Task = iota + 1
	TaskBinaryLogistic
	TaskMultinomialLogistic
)

func (t Task) String() string {
	switch t {
	case TaskLinear:
		return "linear regression"
	case TaskBinaryLogistic:
		return "binary logistic regression"
	case TaskMultinomialLogistic:
		return "multinomial logistic regression"
	default:
		return fmt.Sprintf("task(%d)", int(t))
	}
}

// TaskNames lists the accepted task strings.
func TaskNames() []string {
	return []string{
		TaskLinear.String(),
		TaskBinaryLogistic.String(),
		TaskMultinomialLogistic.String(),
	}
}

// ParseTask maps a user-facing task string onto a Task.
func ParseTask(s string) (Task, error) {
	switch s {
	case TaskLinear.String():
		return TaskLinear, nil
	case TaskBinaryLogistic.String():
		return TaskBinaryLogistic, nil
	case TaskMultinomialLogistic.String():
		return TaskMultinomialLogistic, nil
	default:
		return 0, fmt.Errorf("invalid task %q, choose one of %v", s, TaskNames())
	}
}

// maxMultinomialLevels bounds how many distinct integer values still
// read as class labels rather than a continuous measurement.
const maxMultinomialLevels = 10

// InferTask guesses the regression task from the target column: a
// categorical target with two levels is binary, with more multinomial;
// a numeric target is continuous unless it only takes a handful of
// integer values.
func InferTask(target dataset.Column) (Task, error) {
	distinct := target.Distinct()
	if distinct < 2 {
		return 0, fmt.Errorf("target %q has %d distinct value(s), cannot model it", target.Name, distinct)
	}
	if target.Kind == dataset.KindCategorical {
		if distinct == 2 {
			return TaskBinaryLogistic, nil
		}
		return TaskMultinomialLogistic, nil
	}
	integral := true
	for _, v := range target.Floats {
		if math.IsNaN(v) {
			continue
		}
		if v != math.Trunc(v) {
			integral = false
			break
		}
	}
	switch {
	case !integral:
		return TaskLinear, nil
	case distinct == 2:
		return TaskBinaryLogistic, nil
	case distinct <= maxMultinomialLevels:
		return TaskMultinomialLogistic, nil
	default:
		return TaskLinear, nil
	}
}

// ResolveTask applies the user's explicit task string when present,
// otherwise infers one from the target column.
func ResolveTask(spec string, target dataset.Column) (Task, error) {
	if spec != "" {
		task, err := ParseTask(spec)
		if err != nil {
			return 0, err
		}
		logger.Infof("executing task type (specified by user): %s", task)
		return task, nil
	}
	task, err := InferTask(target)
	if err != nil {
		return 0, err
	}
	logger.Infof("executing task type (detected automatically): %s", task)
	return task, nil
}
