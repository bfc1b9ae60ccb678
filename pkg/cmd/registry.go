// Package cmd provides common initialization functions for command-line
// applications.
package cmd

import (
	"log/slog"

	"github.com/joelmartins/onsell-engine/pkg/actions/addtag"
	"github.com/joelmartins/onsell-engine/pkg/actions/createtask"
	"github.com/joelmartins/onsell-engine/pkg/actions/movepipeline"
	"github.com/joelmartins/onsell-engine/pkg/actions/sendwhatsapp"
	"github.com/joelmartins/onsell-engine/pkg/capabilities"
	"github.com/joelmartins/onsell-engine/pkg/protocol"
	"github.com/joelmartins/onsell-engine/pkg/registry"
)

// Capabilities groups the providers the native actions depend on.
type Capabilities struct {
	Messenger protocol.Messenger
	Tags      protocol.TagStore
	Pipeline  protocol.PipelineUpdater
	Tasks     protocol.TaskCreator
}

// DefaultCapabilities returns log-backed providers, used when no CRM-side
// integration is wired in.
func DefaultCapabilities(logger *slog.Logger) Capabilities {
	return Capabilities{
		Messenger: capabilities.NewLogMessenger(logger),
		Tags:      capabilities.NewLogTagStore(logger),
		Pipeline:  capabilities.NewLogPipelineUpdater(logger),
		Tasks:     capabilities.NewLogTaskCreator(logger),
	}
}

// NewRegistry builds the action registry with every native action wired to
// the given capability providers.
func NewRegistry(logger *slog.Logger, caps Capabilities) *registry.Registry {
	reg := registry.NewRegistry(logger)

	reg.RegisterAction(sendwhatsapp.NewActionFactory(caps.Messenger))
	reg.RegisterAction(addtag.NewActionFactory(caps.Tags))
	reg.RegisterAction(movepipeline.NewActionFactory(caps.Pipeline))
	reg.RegisterAction(createtask.NewActionFactory(caps.Tasks))

	return reg
}
