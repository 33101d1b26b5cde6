package compose

import (
	"strings"
	"testing"

	"gymdesk/routine-admin/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFormatDaySingleExerciseWithoutVideo(t *testing.T) {
	e1 := primitive.NewObjectID()
	lookup := Lookup{e1: {Name: "Sentadilla"}}
	day := []domain.ExerciseAssignment{{ExerciseID: e1, Series: 4, Repetitions: 10, Weight: "Moderado"}}

	got := FormatDay(day, lookup)
	want := "1. Sentadilla\n4 series de 10 repeticiones\nPeso: Moderado"
	if got != want {
		t.Errorf("FormatDay = %q, want %q", got, want)
	}
}

func TestFormatDayMissingExerciseUsesSentinel(t *testing.T) {
	day := []domain.ExerciseAssignment{{ExerciseID: primitive.NewObjectID(), Series: 4, Repetitions: 10, Weight: "Moderado"}}

	got := FormatDay(day, Lookup{})
	want := "1. " + UnavailableText
	if got != want {
		t.Errorf("FormatDay = %q, want %q", got, want)
	}
}

func TestFormatDayContinuesAfterMissingExercise(t *testing.T) {
	known := primitive.NewObjectID()
	lookup := Lookup{known: {Name: "Press banca", VideoLink: "https://youtu.be/x"}}
	day := []domain.ExerciseAssignment{
		{ExerciseID: primitive.NewObjectID(), Series: 3, Repetitions: 12, Weight: "Ligero"},
		{ExerciseID: known, Series: 5, Repetitions: 5, Weight: "Pesado"},
		{ExerciseID: primitive.NewObjectID(), Series: 3, Repetitions: 8, Weight: "Moderado"},
	}

	blocks := Blocks(day, lookup)
	if len(blocks) != len(day) {
		t.Fatalf("len(blocks) = %d, want %d", len(blocks), len(day))
	}
	if blocks[0] != "1. "+UnavailableText {
		t.Errorf("blocks[0] = %q", blocks[0])
	}
	wantSecond := "2. Press banca\n5 series de 5 repeticiones\nPeso: Pesado\nVer video: https://youtu.be/x"
	if blocks[1] != wantSecond {
		t.Errorf("blocks[1] = %q, want %q", blocks[1], wantSecond)
	}
	if blocks[2] != "3. "+UnavailableText {
		t.Errorf("blocks[2] = %q", blocks[2])
	}
	if n := strings.Count(FormatDay(day, lookup), "\n\n"); n != len(day)-1 {
		t.Errorf("separators = %d, want %d", n, len(day)-1)
	}
}

func TestNumberingFollowsInputOrder(t *testing.T) {
	a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	lookup := Lookup{a: {Name: "Zancadas"}, b: {Name: "Abdominales"}, c: {Name: "Remo"}}
	day := []domain.ExerciseAssignment{
		{ExerciseID: a, Series: 1, Repetitions: 1},
		{ExerciseID: b, Series: 9, Repetitions: 9},
		{ExerciseID: c, Series: 2, Repetitions: 2},
	}

	blocks := Blocks(day, lookup)
	for i, want := range []string{"1. Zancadas", "2. Abdominales", "3. Remo"} {
		if !strings.HasPrefix(blocks[i], want+"\n") {
			t.Errorf("blocks[%d] = %q, want prefix %q", i, blocks[i], want)
		}
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	lookup := Lookup{a: {Name: "Sentadilla", VideoLink: "https://v/1"}, b: {Name: "Peso muerto"}}
	day := []domain.ExerciseAssignment{
		{ExerciseID: b, Series: 3, Repetitions: 6, Weight: "Pesado"},
		{ExerciseID: a, Series: 4, Repetitions: 10, Weight: "Moderado"},
	}

	first := Day("Ana", domain.Martes, day, lookup)
	second := Day("Ana", domain.Martes, day, lookup)
	if first != second {
		t.Errorf("outputs differ:\n%q\n%q", first, second)
	}
}

func TestMessage(t *testing.T) {
	got := Message("Ana", "Martes", "1. Sentadilla")
	want := "Hola Ana, esta es tu rutina para el día Martes:\n\n1. Sentadilla"
	if got != want {
		t.Errorf("Message = %q, want %q", got, want)
	}

	empty := Message("Ana", "Domingo", "")
	if !strings.HasSuffix(empty, EmptyDayText) {
		t.Errorf("empty day message = %q, want suffix %q", empty, EmptyDayText)
	}
}

func TestWithTimerLink(t *testing.T) {
	if got := WithTimerLink("hola", ""); got != "hola" {
		t.Errorf("WithTimerLink without url = %q", got)
	}
	got := WithTimerLink("hola", "https://gym/training-timer/r/Lunes?token=t")
	if got != "hola\n\nTemporizador: https://gym/training-timer/r/Lunes?token=t" {
		t.Errorf("WithTimerLink = %q", got)
	}
}
