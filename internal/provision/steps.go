package provision

import (
	"fmt"
	"strings"

	"snowdemo/pkg/errors"
)

// Step is one stage of the provisioning pipeline.
type Step string

const (
	StepDDL       Step = "ddl"
	StepData      Step = "data"
	StepDocuments Step = "documents"
	StepSearch    Step = "search"
	StepSemantic  Step = "semantic"
	StepValidate  Step = "validate"
)

// AllSteps lists the pipeline in execution order.
var AllSteps = []Step{StepDDL, StepData, StepDocuments, StepSearch, StepSemantic, StepValidate}

// ParseSteps validates names and returns them in pipeline order, whatever
// order they were given in. No names selects every step.
func ParseSteps(names []string) ([]Step, error) {
	if len(names) == 0 {
		return AllSteps, nil
	}

	wanted := map[Step]bool{}
	for _, raw := range names {
		for _, name := range strings.Split(raw, ",") {
			step := Step(strings.ToLower(strings.TrimSpace(name)))
			if step == "" {
				continue
			}
			if !isStep(step) {
				return nil, errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("Unknown step %q", name)).
					WithSuggestions(fmt.Sprintf("Valid steps: %s", stepList())).
					AsFatal()
			}
			wanted[step] = true
		}
	}

	var steps []Step
	for _, s := range AllSteps {
		if wanted[s] {
			steps = append(steps, s)
		}
	}
	return steps, nil
}

func isStep(s Step) bool {
	for _, known := range AllSteps {
		if known == s {
			return true
		}
	}
	return false
}

func stepList() string {
	names := make([]string, len(AllSteps))
	for i, s := range AllSteps {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
