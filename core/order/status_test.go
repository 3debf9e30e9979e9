package order

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCanTransition(t *testing.T) {
	all := []Status{Pending, Paid, Shipped, Delivered, Cancelled}

	allowed := map[[2]Status]bool{
		{Pending, Paid}:      true,
		{Pending, Cancelled}: true,
		{Paid, Shipped}:      true,
		{Paid, Cancelled}:    true,
		{Shipped, Delivered}: true,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]Status{from, to}]
			if got := from.CanTransition(to); got != want {
				t.Errorf("%s -> %s: expected %v, got %v", from, to, want, got)
			}
		}
	}
}

func TestSources(t *testing.T) {
	got := sources(Cancelled)
	sort.Strings(got)

	if diff := cmp.Diff([]string{"PAID", "PENDING"}, got); diff != "" {
		t.Fatalf("unexpected sources (-want +got):\n%s", diff)
	}
	if got := sources(Pending); len(got) != 0 {
		t.Fatalf("nothing leads back to PENDING, got %v", got)
	}
}
