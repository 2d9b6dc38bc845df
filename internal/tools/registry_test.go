package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/bazaar-it/bazaar-sub004/internal/types"
)

func noopExecute(ctx context.Context, in Input) (*Output, error) {
	return &Output{}, nil
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	if reg == nil {
		t.Fatal("NewRegistry returned nil")
	}
	if reg.Count() != 0 {
		t.Errorf("new registry should be empty, got %d tools", reg.Count())
	}
}

func TestRegisterAndGet(t *testing.T) {
	reg := NewRegistry()

	tool := &Tool{
		Name:        types.ToolAddScene,
		Description: "test",
		Execute:     noopExecute,
	}

	if err := reg.Register(tool); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got := reg.Get(types.ToolAddScene)
	if got == nil {
		t.Fatal("Get returned nil for registered tool")
	}
	if got.Name != types.ToolAddScene {
		t.Errorf("got name %q, want %q", got.Name, types.ToolAddScene)
	}
	if !reg.Has(types.ToolAddScene) {
		t.Error("Has returned false for registered tool")
	}
}

func TestRegisterSameToolTwiceIsNoOp(t *testing.T) {
	reg := NewRegistry()

	tool := &Tool{Name: types.ToolDeleteScene, Execute: noopExecute}

	if err := reg.Register(tool); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if err := reg.Register(tool); err != nil {
		t.Fatalf("re-registering the identical tool should be a no-op, got %v", err)
	}
	if reg.Count() != 1 {
		t.Errorf("got %d tools, want 1", reg.Count())
	}
}

func TestRegisterConflictingImplementation(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(&Tool{Name: types.ToolEditScene, Execute: noopExecute}); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	err := reg.Register(&Tool{Name: types.ToolEditScene, Execute: noopExecute})
	if !errors.Is(err, ErrConflictingRegistration) {
		t.Fatalf("got %v, want ErrConflictingRegistration", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		name    string
		tool    *Tool
		wantErr error
	}{
		{
			name:    "empty name",
			tool:    &Tool{Name: "", Execute: noopExecute},
			wantErr: ErrToolNameEmpty,
		},
		{
			name:    "nil execute",
			tool:    &Tool{Name: types.ToolAskSpecify},
			wantErr: ErrToolExecuteNil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Register(tt.tool)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Execute(context.Background(), types.ToolAddScene, Input{})
	if !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("got %v, want ErrToolNotFound", err)
	}
}

func TestNamesSorted(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(&Tool{Name: types.ToolEditScene, Execute: noopExecute})
	reg.MustRegister(&Tool{Name: types.ToolAddScene, Execute: noopExecute})

	names := reg.Names()
	if len(names) != 2 || names[0] != types.ToolAddScene || names[1] != types.ToolEditScene {
		t.Errorf("unexpected names order: %v", names)
	}
}
