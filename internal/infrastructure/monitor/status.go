package monitor

import "time"

// Component is the last observed state of one dependency.
type Component struct {
	Online bool        `json:"online"`
	Error  string      `json:"error,omitempty"`
	Detail interface{} `json:"detail,omitempty"`
}

type Status struct {
	Healthy    bool                 `json:"healthy"`
	Components map[string]Component `json:"components"`
	LastCheck  time.Time            `json:"last_check"`
}

func (s Status) clone() Status {
	out := s
	out.Components = make(map[string]Component, len(s.Components))
	for k, v := range s.Components {
		out.Components[k] = v
	}
	return out
}
