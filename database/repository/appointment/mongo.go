package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"calendra/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoAppointmentRepo implements AppointmentRepository using MongoDB.
type MongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo constructs a repository over the appointments
// collection of the given database.
func NewMongoAppointmentRepo(client *mongo.Client, dbName string) *MongoAppointmentRepo {
	return &MongoAppointmentRepo{coll: client.Database(dbName).Collection("appointments")}
}

func (r *MongoAppointmentRepo) GetBusyTimes(ctx context.Context, rangeStart, rangeEnd time.Time) ([]models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"start": bson.M{"$gte": rangeStart, "$lte": rangeEnd}}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching busy times: %w", err)
	}
	defer cursor.Close(ctx)

	var busy []models.TimeSlot
	for cursor.Next(ctx) {
		var apt models.Appointment
		if err := cursor.Decode(&apt); err != nil {
			return nil, fmt.Errorf("error decoding appointment: %w", err)
		}
		busy = append(busy, models.TimeSlot{Start: apt.Start, End: apt.End, Available: false, Confidence: 1.0})
	}
	return busy, cursor.Err()
}

// Book inserts a new confirmed appointment after checking for an overlapping
// one. The check and insert are not a single transaction; overlapping writes
// from separate processes can still race, which the memory store rules out.
func (r *MongoAppointmentRepo) Book(ctx context.Context, slot models.TimeSlot, details BookingDetails) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	overlap := bson.M{"start": bson.M{"$lt": slot.End}, "end": bson.M{"$gt": slot.Start}}
	count, err := r.coll.CountDocuments(ctx, overlap)
	if err != nil {
		return nil, fmt.Errorf("error checking slot conflicts: %w", err)
	}
	if count > 0 {
		return nil, ErrSlotConflict
	}

	apt := models.Appointment{
		ID:            uuid.New().String(),
		Title:         defaultString(details.Title, "Meeting"),
		Start:         slot.Start,
		End:           slot.End,
		AttendeeEmail: details.AttendeeEmail,
		Status:        models.StatusConfirmed,
		MeetingType:   defaultString(details.MeetingType, "General"),
		Priority:      defaultString(details.Priority, "Medium"),
		CreatedAt:     time.Now(),
	}
	if _, err := r.coll.InsertOne(ctx, apt); err != nil {
		return nil, fmt.Errorf("error creating appointment: %w", err)
	}
	return &apt, nil
}

func (r *MongoAppointmentRepo) List(ctx context.Context) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error listing appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Appointment
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("error decoding appointments: %w", err)
	}
	return out, nil
}

func (r *MongoAppointmentRepo) Analytics(ctx context.Context, now time.Time) (models.CalendarAnalytics, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
	weekEnd := weekStart.AddDate(0, 0, 7)

	var a models.CalendarAnalytics
	counts := []struct {
		filter bson.M
		dest   *int
	}{
		{bson.M{}, &a.TotalAppointments},
		{bson.M{"status": models.StatusConfirmed}, &a.Confirmed},
		{bson.M{"status": models.StatusPending}, &a.Pending},
		{bson.M{"start": bson.M{"$gte": weekStart, "$lt": weekEnd}}, &a.ThisWeek},
	}
	for _, c := range counts {
		n, err := r.coll.CountDocuments(ctx, c.filter)
		if err != nil {
			return models.CalendarAnalytics{}, fmt.Errorf("error counting appointments: %w", err)
		}
		*c.dest = int(n)
	}
	a.UtilizationRate = utilizationRate(a.Confirmed)
	return a, nil
}
