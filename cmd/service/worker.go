package main

import (
	"context"
	"time"

	"classwork_service/internal/service"
	"classwork_service/pkg/kafka"
	"classwork_service/pkg/logger"
)

// ReminderWorker periodically publishes a reminder for every active
// assignment whose deadline falls inside the due window.
type ReminderWorker struct {
	assignments service.AssignmentServiceInterface
	producer    *kafka.Producer
	logger      *logger.Logger
	topic       string
	interval    time.Duration
	dueWindow   time.Duration
}

func NewReminderWorker(
	assignments service.AssignmentServiceInterface,
	producer *kafka.Producer,
	log *logger.Logger,
	topic string,
	interval time.Duration,
	dueWindow time.Duration,
) *ReminderWorker {
	return &ReminderWorker{
		assignments: assignments,
		producer:    producer,
		logger:      log,
		topic:       topic,
		interval:    interval,
		dueWindow:   dueWindow,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Reminder worker stopped")
			return
		case <-ticker.C:
			w.processReminders(ctx)
		}
	}
}

func (w *ReminderWorker) processReminders(ctx context.Context) {
	assignments, err := w.assignments.FindDueSoon(ctx, w.dueWindow)
	if err != nil {
		w.logger.Errorf("Failed to get assignments due soon: %v", err)
		return
	}

	for _, assignment := range assignments {
		message := map[string]interface{}{
			"assignment_id": assignment.ID,
			"group_id":      assignment.GroupID,
			"subgroup_id":   assignment.SubGroupID,
			"title":         assignment.Title,
			"deadline":      assignment.Deadline,
		}

		if err := w.producer.Send(ctx, w.topic, assignment.ID.String(), message); err != nil {
			w.logger.Errorf("Failed to send reminder for assignment %s: %v", assignment.ID, err)
			continue
		}

		w.logger.Infof("Sent reminder for assignment %s", assignment.ID)
	}
}
