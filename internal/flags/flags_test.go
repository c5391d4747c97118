package flags

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHelperNamesMatchRuntime(t *testing.T) {
	cases := []struct {
		h    RuntimeHelper
		id   int
		name string
	}{
		{Fragment, 0, "Fragment"},
		{OpenBlock, 5, "openBlock"},
		{CreateElementVNode, 9, "createElementVNode"},
		{CreateComment, 11, "createCommentVNode"},
		{ToDisplayString, 22, "toDisplayString"},
		{WithCtx, 35, "withCtx"},
		{IsMemoSame, 39, "isMemoSame"},
	}
	for _, tc := range cases {
		if int(tc.h) != tc.id {
			t.Errorf("%s: id %d, want %d", tc.name, tc.h, tc.id)
		}
		got, err := tc.h.Name(nil)
		if err != nil || got != tc.name {
			t.Errorf("Name(%d) = %q, %v", tc.id, got, err)
		}
	}
	if ReservedMax != 40 {
		t.Fatalf("ReservedMax = %d", ReservedMax)
	}
	if _, err := RuntimeHelper(10).Name(nil); !errors.Is(err, ErrUnknownHelper) {
		t.Fatalf("unused id must not resolve, got %v", err)
	}
}

func TestCustomHelpers(t *testing.T) {
	table := []string{"useFoo", "useBar"}
	h := CustomHelper(1)
	if h != 41 || !h.IsCustom() {
		t.Fatalf("CustomHelper(1) = %d", h)
	}
	if name, err := h.Name(table); err != nil || name != "useBar" {
		t.Fatalf("Name = %q, %v", name, err)
	}
	if _, err := CustomHelper(2).Name(table); !errors.Is(err, ErrUnknownHelper) {
		t.Fatalf("expected ErrUnknownHelper, got %v", err)
	}
}

func TestCollectorOrderAndIdempotence(t *testing.T) {
	var c HelperCollector
	for _, h := range []RuntimeHelper{Unref, OpenBlock, CreateVNode, OpenBlock} {
		c.Insert(h)
	}
	var once HelperCollector
	for _, h := range []RuntimeHelper{Unref, OpenBlock, CreateVNode} {
		once.Insert(h)
	}
	if c != once {
		t.Fatalf("double insertion must be invisible: %v vs %v", c, once)
	}
	got := slices.Collect(c.All())
	if diff := cmp.Diff([]RuntimeHelper{5, 8, 36}, got); diff != "" {
		t.Fatalf("iteration order (-want +got):\n%s", diff)
	}
	if c.Len() != 3 || c.IsEmpty() || !c.Contains(CreateVNode) || c.Contains(Fragment) {
		t.Fatalf("unexpected set state %v", c)
	}
}

func TestCollectorAllStopsEarly(t *testing.T) {
	c := HelperCollector{}.With(Fragment).With(RenderList).With(WithCtx)
	var seen []RuntimeHelper
	for h := range c.All() {
		seen = append(seen, h)
		if h == RenderList {
			break
		}
	}
	if len(seen) != 2 {
		t.Fatalf("iteration did not stop: %v", seen)
	}
}

func TestHoistSubset(t *testing.T) {
	var c HelperCollector
	for h := range RuntimeHelper(ReservedMax) {
		c.Insert(h)
	}
	c.Insert(CustomHelper(0))
	sub := c.HoistSubset()
	want := []RuntimeHelper{CreateVNode, CreateElementVNode, CreateComment, CreateText, CreateStatic}
	if diff := cmp.Diff(want, slices.Collect(sub.All())); diff != "" {
		t.Fatalf("hoist subset (-want +got):\n%s", diff)
	}
	for h := range sub.All() {
		if !c.Contains(h) || !hoistHelpers.Contains(h) {
			t.Fatalf("%v is not in both the input and the legal set", h)
		}
	}
	partial := HelperCollector{}.With(OpenBlock).With(CreateText)
	if got := slices.Collect(partial.HoistSubset().All()); !slices.Equal(got, []RuntimeHelper{CreateText}) {
		t.Fatalf("partial subset = %v", got)
	}
}

func TestCollectorNames(t *testing.T) {
	c := HelperCollector{}.With(ToDisplayString).With(CreateElementVNode).With(CustomHelper(0))
	names, err := c.Names([]string{"vFocus"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"createElementVNode", "toDisplayString", "vFocus"}, names); diff != "" {
		t.Fatalf("names (-want +got):\n%s", diff)
	}
	if _, err := c.Names(nil); !errors.Is(err, ErrUnknownHelper) {
		t.Fatalf("expected ErrUnknownHelper, got %v", err)
	}
}

func TestInsertOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	var c HelperCollector
	c.Insert(64)
}

func TestPatchFlagValues(t *testing.T) {
	cases := []struct {
		flag PatchFlag
		want int32
	}{
		{FromBits(PatchText), 1},
		{FromBits(PatchClass, PatchStyle), 6},
		{FromBits(PatchProps, PatchHydrateEvents), 40},
		{FromBits(PatchStableFragment, PatchDevRootFragment), 64 | 2048},
		{FromBits(PatchNeedPatch), 512},
		{FromBits(PatchDynamicSlots), 1024},
		{Hoisted(), -1},
		{Bail(), -2},
	}
	for _, tc := range cases {
		if got := tc.flag.Value(); got != tc.want {
			t.Errorf("%v: Value() = %d, want %d", tc.flag, got, tc.want)
		}
		if tc.flag.Value() < 0 && !tc.flag.IsSpecial() {
			t.Errorf("%v: negative value must be a marker", tc.flag)
		}
	}
}

func TestFullPropsExclusive(t *testing.T) {
	f := FromBits(PatchClass, PatchProps, PatchText).With(PatchFullProps)
	if f.Has(PatchClass) || f.Has(PatchProps) || !f.Has(PatchText) || !f.Has(PatchFullProps) {
		t.Fatalf("FULL_PROPS must clear partial bits: %v", f)
	}
	f = f.With(PatchStyle)
	if f.Has(PatchStyle) {
		t.Fatalf("STYLE must not be added next to FULL_PROPS: %v", f)
	}
	if f.Value() != 17 {
		t.Fatalf("Value() = %d", f.Value())
	}
}

func TestPatchFlagSpecialIsClosed(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when adding bits to HOISTED")
		}
	}()
	Hoisted().With(PatchText)
}

func TestFromValue(t *testing.T) {
	valid := []int32{0, 1, 9, 16 | 32, 4095 &^ 14, -1, -2}
	for _, v := range valid {
		f, err := FromValue(v)
		if err != nil {
			t.Errorf("FromValue(%d): %v", v, err)
			continue
		}
		if f.Value() != v {
			t.Errorf("FromValue(%d).Value() = %d", v, f.Value())
		}
	}
	invalid := []int32{-3, -7, 4096, 16 | 2, 16 | 8}
	for _, v := range invalid {
		if _, err := FromValue(v); err == nil {
			t.Errorf("FromValue(%d) must fail", v)
		}
	}
}

func TestPatchFlagNamesAndParse(t *testing.T) {
	f := FromBits(PatchText, PatchProps, PatchDevRootFragment)
	if got := f.String(); got != "TEXT|PROPS|DEV_ROOT_FRAGMENT" {
		t.Fatalf("String() = %q", got)
	}
	if got := f.Production().String(); got != "TEXT|PROPS" {
		t.Fatalf("Production() = %q", got)
	}
	back, err := ParsePatchFlag(f.String())
	if err != nil || back != f {
		t.Fatalf("ParsePatchFlag = %v, %v", back, err)
	}
	if got, _ := ParsePatchFlag("BAIL"); !got.IsBail() {
		t.Fatalf("BAIL not parsed")
	}
	if _, err := ParsePatchFlag("TEXT|NOPE"); err == nil {
		t.Fatalf("expected error for unknown name")
	}
}

func TestStaticLevelOrder(t *testing.T) {
	if !(NotStatic < CanSkipPatch && CanSkipPatch < CanHoist && CanHoist < CanStringify) {
		t.Fatalf("levels out of order")
	}
	if MinLevel(CanStringify, CanSkipPatch) != CanSkipPatch {
		t.Fatalf("MinLevel")
	}
	if CanSkipPatch.CanHoistNode() || !CanHoist.CanHoistNode() || !CanStringify.CanStringifyNode() || NotStatic.CanSkipPatching() || !CanSkipPatch.CanSkipPatching() {
		t.Fatalf("predicates")
	}
}

func TestSlotFlagValues(t *testing.T) {
	if SlotStable != 1 || SlotDynamic != 2 || SlotForwarded != 3 {
		t.Fatalf("slot flag values drifted")
	}
}
