package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndiHofi/quarble-sub000/internal/model"
	"github.com/AndiHofi/quarble-sub000/internal/timecalc"
)

func hm(h, m int) timecalc.Time { return timecalc.HM(h, m) }

func TestParseIssue(t *testing.T) {
	issue, err := model.ParseIssue(" abc-123 ")
	require.NoError(t, err)
	assert.Equal(t, "ABC-123", issue.ID)

	for _, bad := range []string{"", "ABC", "123", "ABC-", "-12", "AB C-1"} {
		_, err := model.ParseIssue(bad)
		assert.ErrorIs(t, err, model.ErrInvalidIssue, bad)
	}
}

func TestParseLocation(t *testing.T) {
	assert.Equal(t, model.Office, model.ParseLocation(""))
	assert.Equal(t, model.Home, model.ParseLocation("h"))
	assert.Equal(t, model.Location("Client Site"), model.ParseLocation("Client Site"))
}

func TestDayNavigation(t *testing.T) {
	fri := model.NewDay(2022, time.January, 7)
	assert.Equal(t, "2022-01-10", fri.NextWorkDay().String())
	assert.Equal(t, "2022-01-08", fri.Next().String())

	mon := model.NewDay(2022, time.January, 10)
	assert.Equal(t, "2022-01-07", mon.PrevWorkDay().String())
	assert.Equal(t, "2022-01-09", mon.Prev().String())

	d, err := model.ParseDay("2022-01-06")
	require.NoError(t, err)
	assert.Equal(t, model.NewDay(2022, time.January, 6), d)

	_, err = model.ParseDay("06.01.2022")
	assert.Error(t, err)
}

func TestCompareOrdering(t *testing.T) {
	a1 := model.MustIssue("A-1")
	tests := []struct {
		name string
		a, b model.Action
		want int
	}{
		{"earlier start first", model.DayStart{At: hm(8, 0)}, model.DayEnd{At: hm(9, 0)}, -1},
		{"missing end before end", model.DayStart{At: hm(8, 0)}, model.Work{Start: hm(8, 0), End: hm(8, 15), Issue: a1}, -1},
		{"shorter end first", model.Work{Start: hm(8, 0), End: hm(8, 15), Issue: a1}, model.ZA{Start: hm(8, 0), End: hm(9, 0)}, -1},
		{"kind breaks ties", model.Work{Start: hm(8, 0), End: hm(9, 0), Issue: a1}, model.ZA{Start: hm(8, 0), End: hm(9, 0)}, -1},
		{"work start before work end", model.WorkStart{At: hm(8, 0), Issue: a1}, model.WorkEnd{At: hm(8, 0), Issue: a1}, -1},
		{"day markers", model.DayOff{}, model.Sick{}, -1},
		{"payload ignored", model.WorkEvent{At: hm(8, 0), Issue: a1, Description: "x"}, model.WorkEvent{At: hm(8, 0), Description: "y"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.Compare(tt.a, tt.b))
			assert.Equal(t, -tt.want, model.Compare(tt.b, tt.a))
		})
	}
}

func TestActionSetDropsEqualKeys(t *testing.T) {
	set := model.NewActionSet()
	first := model.Work{Start: hm(9, 0), End: hm(10, 0), Issue: model.MustIssue("A-1"), Description: "first"}
	second := model.Work{Start: hm(9, 0), End: hm(10, 0), Issue: model.MustIssue("B-2"), Description: "second"}

	assert.True(t, set.Insert(first))
	assert.False(t, set.Insert(second))
	require.Equal(t, 1, set.Len())
	assert.Equal(t, first, set.Items()[0])
}

func TestActionSetOrderAndRemove(t *testing.T) {
	set := model.NewActionSet(
		model.DayEnd{At: hm(17, 0)},
		model.Work{Start: hm(9, 0), End: hm(10, 0), Issue: model.MustIssue("A-1")},
		model.DayStart{At: hm(8, 0)},
	)
	items := set.Items()
	require.Len(t, items, 3)
	assert.Equal(t, model.KindDayStart, items[0].Kind())
	assert.Equal(t, model.KindWork, items[1].Kind())
	assert.Equal(t, model.KindDayEnd, items[2].Kind())

	second, ok := set.At(1)
	require.True(t, ok)
	assert.Equal(t, items[1], second)
	_, ok = set.At(3)
	assert.False(t, ok)

	assert.True(t, set.Remove(model.DayEnd{At: hm(17, 0)}))
	assert.False(t, set.Remove(model.DayEnd{At: hm(17, 0)}))
	assert.Equal(t, 2, set.Len())
}

func TestActionSetCloneIsIndependent(t *testing.T) {
	set := model.NewActionSet(model.DayStart{At: hm(8, 0)})
	clone := set.Clone()
	clone.Insert(model.DayEnd{At: hm(12, 0)})

	assert.Equal(t, 1, set.Len())
	assert.Equal(t, 2, clone.Len())
}

func TestActiveDayJSONRoundTrip(t *testing.T) {
	day := model.NewActiveDay(model.NewDay(2022, time.January, 6), model.Home, &model.Issue{ID: "D-15", DefaultAction: "dev"})
	day.AddAction(model.DayStart{At: hm(8, 0), Location: model.Home})
	day.AddAction(model.Work{Start: hm(9, 0), End: hm(9, 30), Issue: model.MustIssue("A-1"), Description: "review", ExternalID: "ext"})
	day.AddAction(model.WorkStart{At: hm(10, 0), Issue: model.MustIssue("B-2"), Description: "build"})
	day.AddAction(model.WorkEnd{At: hm(11, 0), Issue: model.MustIssue("B-2")})
	day.AddAction(model.ZA{Start: hm(15, 0), End: hm(16, 0)})
	day.AddAction(model.Vacation{})
	day.AddAction(model.DayEnd{At: hm(17, 0)})

	data, err := json.Marshal(day)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"work_start"`)

	var loaded model.ActiveDay
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, day.Day, loaded.Day)
	assert.Equal(t, day.MainLocation, loaded.MainLocation)
	assert.Equal(t, day.ActiveIssue, loaded.ActiveIssue)
	assert.Equal(t, day.Actions(), loaded.Actions())
}

func TestUnmarshalActionUnknownType(t *testing.T) {
	_, err := model.UnmarshalAction([]byte(`{"type":"coffee"}`))
	assert.ErrorIs(t, err, model.ErrInvalidAction)
}

func TestUnmarshalActionMissingType(t *testing.T) {
	for _, raw := range []string{`{"at":"09:00"}`, `{"type":null,"start":"09:00","end":"10:00"}`, `{}`} {
		a, err := model.UnmarshalAction([]byte(raw))
		assert.ErrorIs(t, err, model.ErrInvalidAction, raw)
		assert.ErrorContains(t, err, `missing "type"`, raw)
		assert.Nil(t, a, raw)
	}

	var d model.ActiveDay
	err := json.Unmarshal([]byte(`{"day":"2022-01-06","actions":[{"start":"09:00","end":"10:00"}]}`), &d)
	assert.ErrorIs(t, err, model.ErrInvalidAction)
}

func TestWorkStartStarted(t *testing.T) {
	typed := model.WorkStart{At: hm(9, 0), Issue: model.MustIssue("A-1"), Description: "review"}
	assert.Equal(t, model.Issue{ID: "A-1", DefaultAction: "review"}, typed.Started())

	withDefault := typed
	withDefault.Issue.DefaultAction = "dev"
	assert.Equal(t, "dev", withDefault.Started().DefaultAction)
}

func TestCurrentIssue(t *testing.T) {
	carried := &model.Issue{ID: "D-15", DefaultAction: "dev"}
	day := model.NewActiveDay(model.NewDay(2022, time.January, 6), model.Office, carried)
	day.AddAction(model.WorkStart{At: hm(10, 0), Issue: model.MustIssue("A-1"), Description: "Description1"})
	day.AddAction(model.WorkEnd{At: hm(12, 0), Issue: model.MustIssue("B-9")})
	day.AddAction(model.WorkEnd{At: hm(14, 0), Issue: model.MustIssue("A-1")})

	assert.Equal(t, carried, day.CurrentIssue(hm(9, 0)))

	at11 := day.CurrentIssue(hm(11, 0))
	require.NotNil(t, at11)
	assert.Equal(t, "A-1", at11.ID)
	assert.Equal(t, "Description1", at11.DefaultAction)

	// Ending an issue that is not active leaves the active one alone.
	at13 := day.CurrentIssue(hm(13, 0))
	require.NotNil(t, at13)
	assert.Equal(t, "A-1", at13.ID)

	assert.Nil(t, day.CurrentIssue(timecalc.EndOfDay))
}

func TestLastActionEnd(t *testing.T) {
	day := model.NewActiveDay(model.NewDay(2022, time.January, 6), model.Office, nil)
	_, ok := day.LastActionEnd(timecalc.EndOfDay)
	assert.False(t, ok)

	day.AddAction(model.DayStart{At: hm(8, 0)})
	day.AddAction(model.Work{Start: hm(9, 0), End: hm(11, 0), Issue: model.MustIssue("A-1")})
	day.AddAction(model.WorkEvent{At: hm(10, 0), Issue: model.MustIssue("A-1")})

	last, ok := day.LastActionEnd(hm(12, 0))
	require.True(t, ok)
	assert.Equal(t, hm(11, 0), last)

	last, ok = day.LastActionEnd(hm(10, 30))
	require.True(t, ok)
	assert.Equal(t, hm(10, 0), last)
}

func TestActiveDayCloneIsIndependent(t *testing.T) {
	day := model.NewActiveDay(model.NewDay(2022, time.January, 6), model.Office, &model.Issue{ID: "A-1"})
	day.AddAction(model.DayStart{At: hm(8, 0)})

	clone := day.Clone()
	clone.AddAction(model.DayEnd{At: hm(9, 0)})
	clone.ActiveIssue.ID = "B-2"

	assert.Len(t, day.Actions(), 1)
	assert.Equal(t, "A-1", day.ActiveIssue.ID)
}
