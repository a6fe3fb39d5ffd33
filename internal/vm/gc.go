package vm

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

// GCStats accumulates collector diagnostics across a VM's lifetime, printed
// by the CLI's -gc-stats flag using human-readable byte counts.
type GCStats struct {
	Collections int
	TotalFreed  uint64
	Log         io.Writer
}

func (s *GCStats) record(freed uint64, before, after uint64) {
	s.Collections++
	s.TotalFreed += freed
	if s.Log != nil {
		fmt.Fprintf(s.Log, "gc: collected %s (%s -> %s)\n",
			humanize.Bytes(freed), humanize.Bytes(before), humanize.Bytes(after))
	}
}

// Summary renders a one-line human-readable report of everything collected.
func (s *GCStats) Summary() string {
	return fmt.Sprintf("%d collection(s), %s freed", s.Collections, humanize.Bytes(s.TotalFreed))
}

// collectGarbage runs one full mark-and-sweep cycle: mark every root-reachable
// object, transitively trace their references, drop now-unreachable strings
// from the intern table, then sweep the all-objects list and free anything
// left unmarked. This is invoked from exactly one place, the top of (*VM).run's
// loop, since compilation never touches the object graph a running frame owns.
func (vm *VM) collectGarbage() {
	before := vm.bytesAllocated

	vm.markRoots()
	vm.traceReferences()
	vm.removeWhiteStrings()
	freed := vm.sweep()

	vm.nextGC = vm.bytesAllocated * vm.gcGrowthFactor
	if vm.nextGC == 0 {
		vm.nextGC = 1024 * 1024
	}

	if vm.GCStats != nil {
		vm.GCStats.record(freed, before, vm.bytesAllocated)
	}
}

func (vm *VM) markRoots() {
	for i := 0; i < vm.stackTop; i++ {
		vm.markValue(vm.stack[i])
	}
	for i := range vm.frames {
		vm.markObject(vm.frames[i].closure)
	}
	for up := vm.openUpvalues; up != nil; up = up.NextOpen {
		vm.markObject(up)
	}
	for _, v := range vm.globals {
		vm.markValue(v)
	}
	vm.markObject(vm.initString)
}

func (vm *VM) markValue(v Value) {
	if v.IsObj() {
		vm.markObject(v.Obj)
	}
}

func (vm *VM) markObject(o Obj) {
	if o == nil || o.Marked() {
		return
	}
	o.Mark()
	vm.grayStack = append(vm.grayStack, o)
}

func (vm *VM) traceReferences() {
	for len(vm.grayStack) > 0 {
		n := len(vm.grayStack) - 1
		o := vm.grayStack[n]
		vm.grayStack = vm.grayStack[:n]
		vm.blacken(o)
	}
}

// blacken marks every object o directly references, per spec.md §4.5's
// per-type traversal table.
func (vm *VM) blacken(o Obj) {
	switch v := o.(type) {
	case *ObjString, *ObjNative:
		// no outgoing references
	case *ObjFunction:
		if v.Name != nil {
			vm.markObject(v.Name)
		}
		for _, c := range v.Chunk.Constants {
			vm.markValue(c)
		}
	case *ObjClosure:
		vm.markObject(v.Function)
		for _, u := range v.Upvalues {
			vm.markObject(u)
		}
	case *ObjUpvalue:
		if v.IsClosed {
			vm.markValue(v.Closed)
		}
	case *ObjClass:
		vm.markObject(v.Name)
		for _, m := range v.Methods {
			vm.markValue(m)
		}
	case *ObjInstance:
		vm.markObject(v.Class)
		for _, f := range v.Fields {
			vm.markValue(f)
		}
	case *ObjBoundMethod:
		vm.markValue(v.Receiver)
		vm.markObject(v.Method)
	case *ObjList:
		for _, e := range v.Elements {
			vm.markValue(e)
		}
	}
}

// removeWhiteStrings drops intern-table entries for strings that didn't get
// marked this cycle, matching clox's tableRemoveWhite: without this, the
// intern map would itself be a GC root keeping every string ever seen alive.
func (vm *VM) removeWhiteStrings() {
	for key, s := range vm.strings {
		if !s.Marked() {
			delete(vm.strings, key)
		}
	}
}

// sweep walks the all-objects list, unlinking and discarding anything left
// unmarked, and clears the mark bit on survivors for the next cycle. It
// returns an approximate byte count freed.
func (vm *VM) sweep() uint64 {
	var freed uint64
	var prev Obj
	obj := vm.objects

	for obj != nil {
		if obj.Marked() {
			obj.Unmark()
			prev = obj
			obj = obj.Next()
			continue
		}

		unreached := obj
		obj = obj.Next()
		if prev != nil {
			prev.SetNext(obj)
		} else {
			vm.objects = obj
		}
		freed += uint64(objectSize(unreached))
	}
	if freed > vm.bytesAllocated {
		vm.bytesAllocated = 0
	} else {
		vm.bytesAllocated -= freed
	}
	return freed
}
