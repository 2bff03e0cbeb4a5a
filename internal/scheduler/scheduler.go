package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/example/growtalk/internal/database"
	"github.com/go-co-op/gocron"
)

// Greeter sends the daily invitation message to a student.
type Greeter interface {
	SendMorningGreeting(ctx context.Context, studentID int64, name string) error
}

// Scheduler manages the recurring jobs of the tutoring programme: the hourly
// greeting push and the nightly training-day rollover.
type Scheduler struct {
	scheduler *gocron.Scheduler
	greeter   Greeter
	students  *database.StudentRepository
}

// New creates a new scheduler instance
func New(greeter Greeter) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		greeter:   greeter,
		students:  database.NewStudentRepository(),
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(s.sendGreetings)
	s.scheduler.Every(1).Day().At("00:00").Do(s.advanceTrainingDays)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// sendGreetings invites every student whose notification hour matches the
// current hour to start today's practice.
func (s *Scheduler) sendGreetings() {
	ctx := context.Background()
	currentHour := time.Now().UTC().Hour()

	students, err := s.students.GetForNotification(ctx, currentHour)
	if err != nil {
		log.Printf("Error getting students for notification: %v", err)
		return
	}

	for _, student := range students {
		if err := s.greeter.SendMorningGreeting(ctx, student.ChatID, student.Name); err != nil {
			log.Printf("Error greeting student %d: %v", student.ChatID, err)
		}
	}
}

// advanceTrainingDays rolls every enrolled student over to the next training
// day, resetting their cursors to the start of that day's content.
func (s *Scheduler) advanceTrainingDays() {
	ctx := context.Background()

	students, err := s.students.GetAll(ctx)
	if err != nil {
		log.Printf("Error getting students for day advancement: %v", err)
		return
	}

	for _, student := range students {
		if !student.NotificationEnabled {
			continue
		}
		if err := s.students.AdvanceDay(ctx, student.ChatID); err != nil {
			log.Printf("Error advancing day for student %d: %v", student.ChatID, err)
		}
	}
}
