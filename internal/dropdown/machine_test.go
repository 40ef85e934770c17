package dropdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/dropdown/internal/option"
	"github.com/runger/dropdown/internal/selection"
	"github.com/runger/dropdown/internal/surface"
)

func abc() option.List {
	return option.List{
		option.New("A", option.NumberValue(1)),
		option.New("B", option.NumberValue(2)),
		option.New("C", option.NumberValue(3)),
	}
}

// singleMachine returns a machine whose owner feeds every change back as props.
func singleMachine(t *testing.T, opts option.List, value *option.Option) (*Machine, *[]*option.Option) {
	t.Helper()
	var emitted []*option.Option
	var m *Machine
	var props func(v *option.Option) selection.Single
	props = func(v *option.Option) selection.Single {
		return selection.Single{Options: opts, Value: v, OnChange: func(next *option.Option) {
			emitted = append(emitted, next)
			require.NoError(t, m.SetProps(props(next)))
		}}
	}
	m, err := NewMachine(props(value), nil)
	require.NoError(t, err)
	return m, &emitted
}

func multiMachine(t *testing.T, opts option.List, value []*option.Option) (*Machine, *[][]*option.Option) {
	t.Helper()
	var emitted [][]*option.Option
	var m *Machine
	var props func(v []*option.Option) selection.Multiple
	props = func(v []*option.Option) selection.Multiple {
		return selection.Multiple{Options: opts, Value: v, OnChange: func(next []*option.Option) {
			emitted = append(emitted, next)
			require.NoError(t, m.SetProps(props(next)))
		}}
	}
	m, err := NewMachine(props(value), nil)
	require.NoError(t, err)
	return m, &emitted
}

func TestNewMachine_InitialState(t *testing.T) {
	m, _ := singleMachine(t, abc(), nil)
	assert.False(t, m.IsOpen())
	assert.Equal(t, 0, m.Highlighted())
}

func TestNewMachine_RejectsMissingCallback(t *testing.T) {
	_, err := NewMachine(selection.Single{Options: abc()}, nil)
	assert.ErrorIs(t, err, selection.ErrContractViolation)
}

func TestMachine_SetPropsRejectsModeSwitch(t *testing.T) {
	m, _ := singleMachine(t, abc(), nil)
	err := m.SetProps(selection.Multiple{Options: abc(), OnChange: func([]*option.Option) {}})
	assert.ErrorIs(t, err, selection.ErrContractViolation)
	assert.False(t, m.Policy().Multiple())
}

func TestMachine_EscapeIsIdempotent(t *testing.T) {
	opts := abc()
	m, emitted := singleMachine(t, opts, opts[1])

	m.ToggleOpen()
	m.Key(surface.KeyArrowDown)
	m.Key(surface.KeyEscape)
	assert.False(t, m.IsOpen())
	assert.Empty(t, *emitted, "escape never commits")

	h := m.Highlighted()
	m.Key(surface.KeyEscape)
	assert.False(t, m.IsOpen())
	assert.Equal(t, h, m.Highlighted())
	assert.Empty(t, *emitted)
}

func TestMachine_HighlightResetsOnEveryOpen(t *testing.T) {
	opens := []struct {
		name string
		open func(m *Machine)
	}{
		{"pointer toggle", func(m *Machine) { m.ToggleOpen() }},
		{"enter", func(m *Machine) { m.Key(surface.KeyEnter) }},
		{"space", func(m *Machine) { m.Key(surface.KeySpace) }},
		{"arrow up", func(m *Machine) { m.Key(surface.KeyArrowUp) }},
		{"arrow down", func(m *Machine) { m.Key(surface.KeyArrowDown) }},
	}
	for _, tt := range opens {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := singleMachine(t, abc(), nil)

			m.Open()
			m.Key(surface.KeyArrowDown)
			m.Key(surface.KeyArrowDown)
			require.Equal(t, 2, m.Highlighted())
			m.Close()

			tt.open(m)
			assert.True(t, m.IsOpen())
			assert.Equal(t, 0, m.Highlighted())
		})
	}
}

func TestMachine_OpeningArrowDoesNotAlsoMove(t *testing.T) {
	m, _ := singleMachine(t, abc(), nil)
	m.Key(surface.KeyArrowDown)
	assert.True(t, m.IsOpen())
	assert.Equal(t, 0, m.Highlighted())
}

func TestMachine_BoundedNavigation(t *testing.T) {
	m, _ := singleMachine(t, abc(), nil)
	m.Open()

	for i := 0; i < 10; i++ {
		m.Key(surface.KeyArrowDown)
		assert.GreaterOrEqual(t, m.Highlighted(), 0)
		assert.LessOrEqual(t, m.Highlighted(), 2)
	}
	assert.Equal(t, 2, m.Highlighted())

	for i := 0; i < 10; i++ {
		m.Key(surface.KeyArrowUp)
	}
	assert.Equal(t, 0, m.Highlighted(), "no wraparound")

	seq := []surface.Key{surface.KeyArrowDown, surface.KeyArrowUp, surface.KeyArrowUp, surface.KeyArrowDown, surface.KeyArrowDown, surface.KeyArrowDown, surface.KeyArrowDown}
	for _, k := range seq {
		m.Key(k)
		assert.GreaterOrEqual(t, m.Highlighted(), 0)
		assert.LessOrEqual(t, m.Highlighted(), 2)
	}
}

func TestMachine_EmptyOptions(t *testing.T) {
	m, emitted := singleMachine(t, option.List{}, nil)

	m.Key(surface.KeyEnter)
	require.True(t, m.IsOpen())
	m.Key(surface.KeyArrowDown)
	m.Key(surface.KeyArrowUp)
	assert.Equal(t, 0, m.Highlighted())

	m.Key(surface.KeyEnter)
	assert.False(t, m.IsOpen())
	assert.Empty(t, *emitted, "nothing to commit")
}

func TestMachine_HoverRow(t *testing.T) {
	m, _ := singleMachine(t, abc(), nil)

	m.HoverRow(2)
	assert.Equal(t, 0, m.Highlighted(), "hover is ignored while closed")

	m.Open()
	m.HoverRow(2)
	assert.Equal(t, 2, m.Highlighted())
	m.HoverRow(7)
	m.HoverRow(-1)
	assert.Equal(t, 2, m.Highlighted())
}

func TestMachine_CommitRowClosesEvenOutOfRange(t *testing.T) {
	m, emitted := singleMachine(t, abc(), nil)
	m.Open()
	m.CommitRow(9)
	assert.False(t, m.IsOpen())
	assert.Empty(t, *emitted)
}

func TestMachine_SetPropsClampsHighlight(t *testing.T) {
	opts := abc()
	m, _ := singleMachine(t, opts, nil)
	m.Open()
	m.HoverRow(2)

	require.NoError(t, m.SetProps(selection.Single{Options: opts[:1], OnChange: func(*option.Option) {}}))
	assert.Equal(t, 0, m.Highlighted())

	require.NoError(t, m.SetProps(selection.Single{Options: option.List{}, OnChange: func(*option.Option) {}}))
	assert.Equal(t, 0, m.Highlighted())
}

func TestMachine_OtherKeysIgnored(t *testing.T) {
	m, _ := singleMachine(t, abc(), nil)
	m.Key(surface.KeyOther)
	assert.False(t, m.IsOpen())
}

func TestMachine_RemoveBadgeIgnoredInSingleMode(t *testing.T) {
	opts := abc()
	m, emitted := singleMachine(t, opts, opts[0])
	m.RemoveBadge(opts[0])
	assert.Empty(t, *emitted)
}

func TestMachine_ClearLeavesVisibility(t *testing.T) {
	opts := abc()
	m, emitted := multiMachine(t, opts, []*option.Option{opts[0]})
	m.Open()
	m.ClearSelection()
	assert.True(t, m.IsOpen())
	require.Len(t, *emitted, 1)
	assert.Empty(t, (*emitted)[0])
}

// Click control, ArrowDown, Enter commits B and closes.
func TestScenario_SingleKeyboardCommit(t *testing.T) {
	opts := abc()
	m, emitted := singleMachine(t, opts, nil)

	m.ToggleOpen()
	assert.True(t, m.IsOpen())
	assert.Equal(t, 0, m.Highlighted())

	m.Key(surface.KeyArrowDown)
	assert.Equal(t, 1, m.Highlighted())

	m.Key(surface.KeyEnter)
	require.Len(t, *emitted, 1)
	assert.Same(t, opts[1], (*emitted)[0])
	assert.Equal(t, "B", (*emitted)[0].Label)
	assert.False(t, m.IsOpen())
}

func TestScenario_SingleReselectIsNoop(t *testing.T) {
	opts := abc()
	m, emitted := singleMachine(t, opts, nil)

	m.Open()
	m.CommitRow(1)
	m.Open()
	m.CommitRow(1)

	assert.Len(t, *emitted, 1)
	assert.Same(t, opts[1], m.Policy().Selected()[0])
}

func TestScenario_MultipleSpaceTogglesHighlighted(t *testing.T) {
	opts := abc()
	m, _ := multiMachine(t, opts, []*option.Option{})

	m.Key(surface.KeySpace)
	m.Key(surface.KeyArrowDown)
	m.Key(surface.KeySpace)
	assert.False(t, m.IsOpen(), "commit closes in multiple mode too")

	m.Key(surface.KeySpace)
	m.Key(surface.KeySpace)

	assert.Equal(t, []*option.Option{opts[1], opts[0]}, m.Policy().Selected())
}
