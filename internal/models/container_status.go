package models

const (
	ContainerStateRunning  = "running"
	ContainerStateAbsent   = "absent"
	ContainerStateDisabled = "disabled"
)

// ContainerStatus is the observed state of the game server container.
// State is the docker state string ("running", "exited", ...) or one of the constants above.
type ContainerStatus struct {
	Name    string `json:"name"`
	ID      string `json:"id,omitempty"`
	State   string `json:"state"`
	Running bool   `json:"running"`
	Network string `json:"network,omitempty"`
}
