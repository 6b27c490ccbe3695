package mstorage

import (
	"errors"
	"testing"
)

func TestSet(t *testing.T) {
	type args[T any] struct {
		key  string
		val  *T
		m    *MStorage
		opts []func(*SetOptions)
	}
	type testCase[T any] struct {
		name    string
		args    args[T]
		wantErr error
	}
	type target struct {
		Key string
		Val int
	}
	ms := NewMemStorage()
	tests := []testCase[target]{
		{
			name: "default",
			args: args[target]{
				key: "key1",
				val: &target{Key: "key1", Val: 1},
				m:   ms,
			},
		}, {
			name: "duplicate records",
			args: args[target]{
				key: "key1",
				val: &target{Key: "key1", Val: 2},
				m:   ms,
			},
			wantErr: ErrDuplicateKey,
		}, {
			name: "overwrite",
			args: args[target]{
				key:  "key1",
				val:  &target{Key: "key1", Val: 3},
				m:    ms,
				opts: []func(*SetOptions){WithOverwrite()},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Set[target](tt.args.key, tt.args.val, tt.args.m, tt.args.opts...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("%s: Set() error = %+v, wantErr %+v", tt.name, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("%s: Set() unexpected error %+v", tt.name, err)
			}

			val, getErr := Get[target](tt.args.key, tt.args.m)
			if getErr != nil {
				t.Fatal(getErr)
			}
			if val.Key != tt.args.val.Key || val.Val != tt.args.val.Val {
				t.Errorf("%s: Set() Val = %+v, want %+v", tt.name, val, tt.args.val)
			}
		})
	}
}

func TestDeleteAndNextID(t *testing.T) {
	ms := NewMemStorage()
	v := "value"
	if err := Set[string]("a", &v, ms); err != nil {
		t.Fatal(err)
	}
	first := ms.NextID()
	ms.Delete("a")
	ms.Delete("missing")

	if ms.IsExist("a") {
		t.Errorf("Delete() key still exists")
	}
	if _, err := Get[string]("a", ms); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete() error = %v, want %v", err, ErrNotFound)
	}
	if next := ms.NextID(); next != first+1 {
		t.Errorf("NextID() = %d, want %d", next, first+1)
	}
}
