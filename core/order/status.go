package order

type Status string

const (
	Pending   Status = "PENDING"
	Paid      Status = "PAID"
	Shipped   Status = "SHIPPED"
	Delivered Status = "DELIVERED"
	Cancelled Status = "CANCELLED"
)

// transitions lists the statuses reachable in one step from each status.
// Delivered and Cancelled are terminal.
var transitions = map[Status][]Status{
	Pending: {Paid, Cancelled},
	Paid:    {Shipped, Cancelled},
	Shipped: {Delivered},
}

func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

var statuses = []Status{Pending, Paid, Shipped, Delivered, Cancelled}

// sources returns the statuses with an edge to s.
func sources(s Status) []string {
	var from []string
	for _, st := range statuses {
		if st.CanTransition(s) {
			from = append(from, string(st))
		}
	}
	return from
}
