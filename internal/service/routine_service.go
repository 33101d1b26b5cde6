package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gymdesk/routine-admin/internal/compose"
	"gymdesk/routine-admin/internal/domain"
	"gymdesk/routine-admin/internal/notify"
	"gymdesk/routine-admin/internal/repository"
	"gymdesk/routine-admin/internal/tokengate"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrRoutineNotFound = errors.New("routine not found")
	ErrInvalidWeekday  = errors.New("unknown weekday")
	ErrNoRecipient     = errors.New("no e-mail address to send the routine to")
)

// TokenIssuer hands out timer access tokens. Implemented by tokengate.Gate.
type TokenIssuer interface {
	Issue(ctx context.Context, routineID primitive.ObjectID, day domain.Weekday) (*domain.AccessToken, error)
}

// LinkSettings are the public addresses embedded in outgoing messages.
type LinkSettings struct {
	PublicOrigin string // e.g. https://rutinas.mygym.com
	ChatBaseURL  string // click-to-chat provider
}

// RoutineInput is a routine as submitted by staff. Day keys may use the legacy
// unaccented spelling; they are stored canonically.
type RoutineInput struct {
	Name           string
	StudentID      *primitive.ObjectID
	ExpirationDate time.Time
	RoutineByDay   map[string][]domain.ExerciseAssignment
}

// DayView is one populated day with its composed text.
type DayView struct {
	Day         domain.Weekday              `json:"day"`
	Assignments []domain.ExerciseAssignment `json:"assignments"`
	Text        string                      `json:"text"`
}

// DayMessage is the composed message for one day, ready to share.
type DayMessage struct {
	RoutineID   primitive.ObjectID `json:"routineId"`
	Day         domain.Weekday     `json:"day"`
	StudentName string             `json:"studentName"`
	Phone       string             `json:"phone"`
	Message     string             `json:"message"`
	WhatsappURL string             `json:"whatsappUrl"`
}

// TimerLink is a freshly issued public timer link.
type TimerLink struct {
	TimerURL  string    `json:"timerUrl"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SentDay is a day message that carries a timer link.
type SentDay struct {
	DayMessage
	TimerLink
}

// EmailedDay reports an e-mail delivery of a day.
type EmailedDay struct {
	SentDay
	To        string `json:"to"`
	MessageID string `json:"messageId"`
}

type RoutineService interface {
	CreateRoutine(ctx context.Context, sess domain.Session, input RoutineInput) (*domain.Routine, error)
	// ListRoutines lists the routines of one student when studentID is set,
	// otherwise everything the session can see.
	ListRoutines(ctx context.Context, sess domain.Session, studentID *primitive.ObjectID) ([]domain.Routine, error)
	GetRoutine(ctx context.Context, sess domain.Session, id primitive.ObjectID) (*domain.Routine, error)
	// UpdateRoutine replaces the routine. Concurrent edits are last-write-wins.
	UpdateRoutine(ctx context.Context, sess domain.Session, id primitive.ObjectID, input RoutineInput) (*domain.Routine, error)
	DeleteRoutine(ctx context.Context, sess domain.Session, id primitive.ObjectID) error

	// DayViews returns the populated days Monday first, each composed.
	DayViews(ctx context.Context, sess domain.Session, id primitive.ObjectID) ([]DayView, error)
	// ComposeDay builds the message and chat link for a day without a timer link.
	ComposeDay(ctx context.Context, sess domain.Session, id primitive.ObjectID, day string) (*DayMessage, error)
	// SendDay issues an access token and returns the message with the timer
	// link appended. Earlier links for the day stay valid.
	SendDay(ctx context.Context, sess domain.Session, id primitive.ObjectID, day string) (*SentDay, error)
	// EmailDay is SendDay delivered by e-mail. An empty to uses the student's address.
	EmailDay(ctx context.Context, sess domain.Session, id primitive.ObjectID, day, to string) (*EmailedDay, error)
	// IssueTimerLink issues a token for starting the timer directly.
	IssueTimerLink(ctx context.Context, sess domain.Session, id primitive.ObjectID, day string) (*TimerLink, error)
}

type routineService struct {
	routineRepo repository.RoutineRepository
	studentRepo repository.StudentRepository
	exercises   ExerciseService
	tokens      TokenIssuer
	mailer      notify.Mailer
	links       LinkSettings
}

func NewRoutineService(
	routineRepo repository.RoutineRepository,
	studentRepo repository.StudentRepository,
	exercises ExerciseService,
	tokens TokenIssuer,
	mailer notify.Mailer,
	links LinkSettings,
) RoutineService {
	if mailer == nil {
		mailer = notify.NewDisabledMailer()
	}
	return &routineService{
		routineRepo: routineRepo,
		studentRepo: studentRepo,
		exercises:   exercises,
		tokens:      tokens,
		mailer:      mailer,
		links:       links,
	}
}

// normalizeDays validates assignments and rewrites day keys canonically.
// Two keys naming the same day (e.g. Miercoles and Miércoles) are rejected
// because their relative order would be undefined.
func normalizeDays(in map[string][]domain.ExerciseAssignment) (map[domain.Weekday][]domain.ExerciseAssignment, error) {
	out := make(map[domain.Weekday][]domain.ExerciseAssignment, len(in))
	for key, assignments := range in {
		day, ok := domain.ParseWeekday(key)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWeekday, key)
		}
		if _, dup := out[day]; dup {
			return nil, fmt.Errorf("%w: day %s given twice", ErrValidationFailed, day)
		}
		for i, a := range assignments {
			if a.ExerciseID == primitive.NilObjectID {
				return nil, fmt.Errorf("%w: %s exercise %d has no exercise id", ErrValidationFailed, day, i+1)
			}
			if a.Series < 0 || a.Repetitions < 0 {
				return nil, fmt.Errorf("%w: %s exercise %d has negative series or repetitions", ErrValidationFailed, day, i+1)
			}
		}
		if len(assignments) > 0 {
			out[day] = assignments
		}
	}
	return out, nil
}

// resolveOwner checks the session may plan for the student and returns the
// trainer the routine belongs to.
func (s *routineService) resolveOwner(ctx context.Context, sess domain.Session, studentID *primitive.ObjectID) (*primitive.ObjectID, error) {
	var studentTrainer *primitive.ObjectID
	if studentID != nil {
		student, err := s.studentRepo.GetByID(ctx, *studentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrStudentNotFound
			}
			return nil, err
		}
		if !sess.CanManage(student.TrainerID) {
			return nil, ErrAccessDenied
		}
		studentTrainer = student.TrainerID
	}
	if sess.IsAdmin() {
		return studentTrainer, nil
	}
	owner := sess.UserID
	return &owner, nil
}

func (s *routineService) CreateRoutine(ctx context.Context, sess domain.Session, input RoutineInput) (*domain.Routine, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, fmt.Errorf("%w: routine name is required", ErrValidationFailed)
	}
	days, err := normalizeDays(input.RoutineByDay)
	if err != nil {
		return nil, err
	}
	owner, err := s.resolveOwner(ctx, sess, input.StudentID)
	if err != nil {
		return nil, err
	}

	routine := &domain.Routine{
		Name:           input.Name,
		TrainerID:      owner,
		StudentID:      input.StudentID,
		ExpirationDate: input.ExpirationDate,
		RoutineByDay:   days,
	}
	id, err := s.routineRepo.Create(ctx, routine)
	if err != nil {
		return nil, err
	}
	routine.ID = id
	return routine, nil
}

func (s *routineService) ListRoutines(ctx context.Context, sess domain.Session, studentID *primitive.ObjectID) ([]domain.Routine, error) {
	if studentID != nil {
		routines, err := s.routineRepo.GetByStudentID(ctx, *studentID)
		if err != nil {
			return nil, err
		}
		visible := routines[:0]
		for _, r := range routines {
			if sess.CanManage(r.TrainerID) {
				visible = append(visible, r)
			}
		}
		return visible, nil
	}
	if sess.IsAdmin() {
		return s.routineRepo.List(ctx)
	}
	return s.routineRepo.GetByTrainerID(ctx, sess.UserID)
}

func (s *routineService) GetRoutine(ctx context.Context, sess domain.Session, id primitive.ObjectID) (*domain.Routine, error) {
	routine, err := s.routineRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}
	if !sess.CanManage(routine.TrainerID) {
		return nil, ErrAccessDenied
	}
	return routine, nil
}

func (s *routineService) UpdateRoutine(ctx context.Context, sess domain.Session, id primitive.ObjectID, input RoutineInput) (*domain.Routine, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, fmt.Errorf("%w: routine name is required", ErrValidationFailed)
	}
	days, err := normalizeDays(input.RoutineByDay)
	if err != nil {
		return nil, err
	}
	routine, err := s.GetRoutine(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	owner := routine.TrainerID
	if !sameID(routine.StudentID, input.StudentID) {
		if owner, err = s.resolveOwner(ctx, sess, input.StudentID); err != nil {
			return nil, err
		}
	}

	routine.Name = input.Name
	routine.TrainerID = owner
	routine.StudentID = input.StudentID
	routine.ExpirationDate = input.ExpirationDate
	routine.RoutineByDay = days

	if err := s.routineRepo.Update(ctx, routine); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}
	return routine, nil
}

func sameID(a, b *primitive.ObjectID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// DeleteRoutine removes the routine. Links already sent for it stop opening.
func (s *routineService) DeleteRoutine(ctx context.Context, sess domain.Session, id primitive.ObjectID) error {
	if _, err := s.GetRoutine(ctx, sess, id); err != nil {
		return err
	}
	if err := s.routineRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoutineNotFound
		}
		return err
	}
	return nil
}

func (s *routineService) lookup(ctx context.Context) (compose.Lookup, error) {
	// Video links must outlive the timer link they travel with.
	return s.exercises.Lookup(ctx, tokengate.TokenLifetime)
}

func (s *routineService) DayViews(ctx context.Context, sess domain.Session, id primitive.ObjectID) ([]DayView, error) {
	routine, err := s.GetRoutine(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	lookup, err := s.lookup(ctx)
	if err != nil {
		return nil, err
	}

	days := routine.OrderedDays()
	views := make([]DayView, 0, len(days))
	for _, d := range days {
		views = append(views, DayView{
			Day:         d.Day,
			Assignments: d.Assignments,
			Text:        compose.FormatDay(d.Assignments, lookup),
		})
	}
	return views, nil
}

func (s *routineService) ComposeDay(ctx context.Context, sess domain.Session, id primitive.ObjectID, day string) (*DayMessage, error) {
	msg, _, err := s.composeDay(ctx, sess, id, day)
	return msg, err
}

// composeDay also returns the student so callers can reach other channels.
func (s *routineService) composeDay(ctx context.Context, sess domain.Session, id primitive.ObjectID, day string) (*DayMessage, *domain.Student, error) {
	weekday, ok := domain.ParseWeekday(day)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidWeekday, day)
	}
	routine, err := s.GetRoutine(ctx, sess, id)
	if err != nil {
		return nil, nil, err
	}
	if routine.StudentID == nil {
		return nil, nil, ErrStudentNotFound
	}
	student, err := s.studentRepo.GetByID(ctx, *routine.StudentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrStudentNotFound
		}
		return nil, nil, err
	}
	lookup, err := s.lookup(ctx)
	if err != nil {
		return nil, nil, err
	}

	text := compose.Day(student.Name, weekday, routine.Day(weekday), lookup)
	return &DayMessage{
		RoutineID:   routine.ID,
		Day:         weekday,
		StudentName: student.Name,
		Phone:       student.Phone,
		Message:     text,
		WhatsappURL: compose.ChatURL(s.links.ChatBaseURL, student.Phone, text),
	}, student, nil
}

func (s *routineService) issue(ctx context.Context, routineID primitive.ObjectID, day domain.Weekday) (*TimerLink, error) {
	token, err := s.tokens.Issue(ctx, routineID, day)
	if err != nil {
		log.Printf("ERROR: Failed to issue timer token for routine %s day %s: %v", routineID.Hex(), day, err)
		return nil, err
	}
	return &TimerLink{
		TimerURL:  compose.TimerURL(s.links.PublicOrigin, routineID.Hex(), day, token.Token),
		Token:     token.Token,
		ExpiresAt: token.ExpirationDate,
	}, nil
}

func (s *routineService) sendDay(ctx context.Context, sess domain.Session, id primitive.ObjectID, day string) (*SentDay, *domain.Student, error) {
	msg, student, err := s.composeDay(ctx, sess, id, day)
	if err != nil {
		return nil, nil, err
	}
	link, err := s.issue(ctx, msg.RoutineID, msg.Day)
	if err != nil {
		return nil, nil, err
	}

	msg.Message = compose.WithTimerLink(msg.Message, link.TimerURL)
	msg.WhatsappURL = compose.ChatURL(s.links.ChatBaseURL, student.Phone, msg.Message)
	return &SentDay{DayMessage: *msg, TimerLink: *link}, student, nil
}

func (s *routineService) SendDay(ctx context.Context, sess domain.Session, id primitive.ObjectID, day string) (*SentDay, error) {
	sent, _, err := s.sendDay(ctx, sess, id, day)
	if err != nil {
		return nil, err
	}
	log.Printf("INFO: Routine %s %s prepared for sending by %s", id.Hex(), sent.Day, sess.UserID.Hex())
	return sent, nil
}

func (s *routineService) EmailDay(ctx context.Context, sess domain.Session, id primitive.ObjectID, day, to string) (*EmailedDay, error) {
	sent, student, err := s.sendDay(ctx, sess, id, day)
	if err != nil {
		return nil, err
	}
	if to = strings.TrimSpace(to); to == "" {
		to = student.Email
	}
	if to == "" {
		return nil, ErrNoRecipient
	}

	html, err := notify.RenderHTML(sent.Message)
	if err != nil {
		return nil, fmt.Errorf("render routine e-mail: %w", err)
	}
	messageID, err := s.mailer.Send(ctx, notify.Email{
		To:      to,
		Subject: "Tu rutina para el día " + sent.Day.String(),
		Text:    sent.Message,
		HTML:    string(html),
	})
	if err != nil {
		return nil, err
	}
	return &EmailedDay{SentDay: *sent, To: to, MessageID: messageID}, nil
}

func (s *routineService) IssueTimerLink(ctx context.Context, sess domain.Session, id primitive.ObjectID, day string) (*TimerLink, error) {
	weekday, ok := domain.ParseWeekday(day)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWeekday, day)
	}
	routine, err := s.GetRoutine(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, routine.ID, weekday)
}
