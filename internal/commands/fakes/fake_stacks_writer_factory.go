package fakes

import "github.com/dsi-platform/dsi/internal/commands"

type FakeStacksWriterFactory struct {
	ReturnForWriter commands.StacksWriter
	ErrorForWriter  error

	ReceivedForKind string
}

func (f *FakeStacksWriterFactory) Writer(kind string) (commands.StacksWriter, error) {
	f.ReceivedForKind = kind

	return f.ReturnForWriter, f.ErrorForWriter
}
