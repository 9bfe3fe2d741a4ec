package vm

import "github.com/holiman/uint256"

// stack is the VM's operand stack. Values are 256-bit unsigned integers
// wrapping on overflow/underflow; it is bounded only by gas, so no fixed
// capacity is enforced here.
type stack struct {
	data []*uint256.Int
}

func newStack() *stack {
	return &stack{data: make([]*uint256.Int, 0, 16)}
}

func (s *stack) push(v *uint256.Int) {
	s.data = append(s.data, v)
}

func (s *stack) pop() (*uint256.Int, error) {
	if len(s.data) == 0 {
		return nil, ErrStackUnderflow
	}
	v := s.data[len(s.data)-1]
	s.data = s.data[:len(s.data)-1]
	return v, nil
}

func (s *stack) peek() (*uint256.Int, error) {
	if len(s.data) == 0 {
		return nil, ErrStackUnderflow
	}
	return s.data[len(s.data)-1], nil
}

func (s *stack) len() int { return len(s.data) }

// dup duplicates the top of the stack (requires at least one item).
func (s *stack) dup() error {
	top, err := s.peek()
	if err != nil {
		return err
	}
	s.push(new(uint256.Int).Set(top))
	return nil
}

// swap exchanges the top two stack items (requires at least two items).
func (s *stack) swap() error {
	if len(s.data) < 2 {
		return ErrStackUnderflow
	}
	n := len(s.data)
	s.data[n-1], s.data[n-2] = s.data[n-2], s.data[n-1]
	return nil
}

// snapshot returns the stack's contents, top last, as decimal strings,
// used to populate Result.Stack.
func (s *stack) snapshot() []string {
	out := make([]string, len(s.data))
	for i, v := range s.data {
		out[i] = v.Dec()
	}
	return out
}
