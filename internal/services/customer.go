package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/handymantracker/backend/internal/models"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrProjectNotFound  = errors.New("project not found")
	ErrMaterialNotFound = errors.New("material not found")
)

type CustomerService struct {
	collection *mongo.Collection
	logger     *logrus.Logger
}

func NewCustomerService(db *mongo.Database, logger *logrus.Logger) *CustomerService {
	return &CustomerService{collection: db.Collection("customers"), logger: logger}
}

// CustomerUpdate carries a partial update; nil fields are left untouched.
type CustomerUpdate struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// SubmitBid implements the public bid-intake flow: the email acts as a soft
// natural key, so an existing customer gets the project appended while a new
// email creates the customer with one embedded project. Reports whether an
// existing customer was matched.
func (s *CustomerService) SubmitBid(ctx context.Context, name, email, phone, address, projectName, description string) (*models.Customer, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	project := models.Project{
		ID:          primitive.NewObjectID(),
		Name:        projectName,
		Description: description,
		Status:      models.ProjectPending,
		Materials:   []models.Material{},
		CreatedAt:   time.Now(),
	}

	var existing models.Customer
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&existing)
	if err == nil {
		_, err = s.collection.UpdateOne(ctx,
			bson.M{"_id": existing.ID},
			bson.M{"$push": bson.M{"projects": project}})
		if err != nil {
			return nil, false, err
		}
		existing.Projects = append(existing.Projects, project)
		return &existing, true, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, false, err
	}

	customer := &models.Customer{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		Address:   address,
		Projects:  []models.Project{project},
		CreatedAt: time.Now(),
	}
	if _, err := s.collection.InsertOne(ctx, customer); err != nil {
		return nil, false, err
	}
	return customer, false, nil
}

func (s *CustomerService) CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	customer.ID = primitive.NewObjectID()
	customer.CreatedAt = time.Now()
	if customer.Projects == nil {
		customer.Projects = []models.Project{}
	}

	if _, err := s.collection.InsertOne(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) CustomerList(ctx context.Context) ([]models.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cur, err := s.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var customers []models.Customer
	if err := cur.All(ctx, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// GetCustomer parses the id once and performs a single lookup; a malformed id
// fails fast with ErrInvalidID.
func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var customer models.Customer
	if err := s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&customer); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// UpdateCustomer merges only the fields present in the update.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id string, update CustomerUpdate) (*models.Customer, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}
	if update.Address != nil {
		set["address"] = *update.Address
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if len(set) > 0 {
		result, err := s.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": set})
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 0 {
			return nil, ErrCustomerNotFound
		}
	}

	var customer models.Customer
	if err := s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&customer); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

// AddProject appends a project to the customer's list and returns the
// appended element.
func (s *CustomerService) AddProject(ctx context.Context, customerID string, project models.Project) (*models.Project, error) {
	objID, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		return nil, ErrInvalidID
	}

	project.ID = primitive.NewObjectID()
	if project.Status == "" {
		project.Status = models.ProjectPending
	}
	if project.Materials == nil {
		project.Materials = []models.Material{}
	}
	project.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$push": bson.M{"projects": project}})
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, ErrCustomerNotFound
	}
	return &project, nil
}

// RemoveProject pulls a project out of the customer's list by its embedded id.
func (s *CustomerService) RemoveProject(ctx context.Context, customerID, projectID string) error {
	custObjID, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		return ErrInvalidID
	}
	projObjID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": custObjID},
		bson.M{"$pull": bson.M{"projects": bson.M{"_id": projObjID}}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrCustomerNotFound
	}
	if result.ModifiedCount == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// updateProject applies the given $set fields to one embedded project and
// returns the updated element.
func (s *CustomerService) updateProject(ctx context.Context, customerID, projectID string, set bson.M) (*models.Project, error) {
	custObjID, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		return nil, ErrInvalidID
	}
	projObjID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": custObjID, "projects._id": projObjID},
		bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		// Distinguish a missing customer from a missing project for the 404
		// message.
		count, err := s.collection.CountDocuments(ctx, bson.M{"_id": custObjID})
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrCustomerNotFound
		}
		return nil, ErrProjectNotFound
	}

	var customer models.Customer
	if err := s.collection.FindOne(ctx, bson.M{"_id": custObjID}).Decode(&customer); err != nil {
		return nil, err
	}
	for i := range customer.Projects {
		if customer.Projects[i].ID == projObjID {
			return &customer.Projects[i], nil
		}
	}
	return nil, ErrProjectNotFound
}

// BidProject records a bid amount and moves the project to Bidded.
func (s *CustomerService) BidProject(ctx context.Context, customerID, projectID string, amount float64) (*models.Project, error) {
	return s.updateProject(ctx, customerID, projectID, bson.M{
		"projects.$.bid_amount": amount,
		"projects.$.status":     models.ProjectBidded,
	})
}

// BillProject records a bill amount and moves the project to Billed.
func (s *CustomerService) BillProject(ctx context.Context, customerID, projectID string, amount float64) (*models.Project, error) {
	return s.updateProject(ctx, customerID, projectID, bson.M{
		"projects.$.bill_amount": amount,
		"projects.$.status":      models.ProjectBilled,
	})
}

// ScheduleProject records a schedule date and moves the project to Scheduled.
func (s *CustomerService) ScheduleProject(ctx context.Context, customerID, projectID string, date time.Time) (*models.Project, error) {
	return s.updateProject(ctx, customerID, projectID, bson.M{
		"projects.$.schedule_date": date,
		"projects.$.status":        models.ProjectScheduled,
	})
}

// CompleteProject moves the project to Completed.
func (s *CustomerService) CompleteProject(ctx context.Context, customerID, projectID string) (*models.Project, error) {
	return s.updateProject(ctx, customerID, projectID, bson.M{
		"projects.$.status": models.ProjectCompleted,
	})
}

// AddMaterial appends a line item to a project's materials.
func (s *CustomerService) AddMaterial(ctx context.Context, customerID, projectID string, material models.Material) (*models.Material, error) {
	custObjID, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		return nil, ErrInvalidID
	}
	projObjID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, ErrInvalidID
	}

	material.ID = primitive.NewObjectID()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": custObjID, "projects._id": projObjID},
		bson.M{"$push": bson.M{"projects.$.materials": material}})
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		count, err := s.collection.CountDocuments(ctx, bson.M{"_id": custObjID})
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrCustomerNotFound
		}
		return nil, ErrProjectNotFound
	}
	return &material, nil
}

// RemoveMaterial pulls a line item out of a project's materials by id.
func (s *CustomerService) RemoveMaterial(ctx context.Context, customerID, projectID, materialID string) error {
	custObjID, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		return ErrInvalidID
	}
	projObjID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return ErrInvalidID
	}
	matObjID, err := primitive.ObjectIDFromHex(materialID)
	if err != nil {
		return ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": custObjID, "projects._id": projObjID},
		bson.M{"$pull": bson.M{"projects.$.materials": bson.M{"_id": matObjID}}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		count, err := s.collection.CountDocuments(ctx, bson.M{"_id": custObjID})
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrCustomerNotFound
		}
		return ErrProjectNotFound
	}
	if result.ModifiedCount == 0 {
		return ErrMaterialNotFound
	}
	return nil
}
