package domain

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CarCondition describes the state a car is sold in.
type CarCondition string

const (
	CarConditionNew       CarCondition = "new"
	CarConditionUsed      CarCondition = "used"
	CarConditionCertified CarCondition = "certified"
)

// CarStatus tracks where a car sits in the inventory lifecycle.
type CarStatus string

const (
	CarStatusAvailable   CarStatus = "available"
	CarStatusSold        CarStatus = "sold"
	CarStatusReserved    CarStatus = "reserved"
	CarStatusMaintenance CarStatus = "maintenance"
)

type CarImage struct {
	URL string `bson:"url" json:"url"`
	Alt string `bson:"alt,omitempty" json:"alt,omitempty"`
}

// Car is an inventory record. VIN uniqueness is enforced by a sparse index,
// so cars without a VIN are allowed in any number.
type Car struct {
	Model    `bson:",inline"`
	Brand    string  `bson:"brand" json:"brand" validate:"required"`
	CarModel string  `bson:"model" json:"model" validate:"required"`
	Year     int     `bson:"year" json:"year" validate:"required"`
	Price    float64 `bson:"price" json:"price" validate:"required,gte=0"`
	Mileage  float64 `bson:"mileage" json:"mileage" validate:"gte=0"`
	Color    string  `bson:"color,omitempty" json:"color,omitempty"`
	VIN      string  `bson:"vin,omitempty" json:"vin,omitempty"`

	CarNumber string       `bson:"carNumber,omitempty" json:"carNumber,omitempty"`
	Condition CarCondition `bson:"condition" json:"condition" validate:"required,oneof=new used certified"`
	Status    CarStatus    `bson:"status" json:"status" validate:"omitempty,oneof=available sold reserved maintenance"`

	PurchaseDate  *time.Time `bson:"purchaseDate,omitempty" json:"purchaseDate,omitempty"`
	PaymentStatus string     `bson:"paymentStatus,omitempty" json:"paymentStatus,omitempty" validate:"omitempty,oneof=Completed Pending Failed"`

	// Customer block captured when a car is sold through the dealership.
	CustomerName    string `bson:"customerName,omitempty" json:"customerName,omitempty"`
	CustomerContact string `bson:"customerContact,omitempty" json:"customerContact,omitempty"`
	CustomerEmail   string `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`

	Features []string   `bson:"features,omitempty" json:"features,omitempty"`
	Images   []CarImage `bson:"images,omitempty" json:"images,omitempty"`

	CreatedBy     primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	LastUpdatedBy primitive.ObjectID `bson:"lastUpdatedBy,omitempty" json:"lastUpdatedBy,omitempty"`

	// Creator is populated on reads from the referenced user; never stored.
	Creator *UserSummary `bson:"-" json:"creator,omitempty"`
}

// FullName renders the display name, e.g. "2021 Toyota Corolla".
func (c *Car) FullName() string {
	return strconv.Itoa(c.Year) + " " + c.Brand + " " + c.CarModel
}

var ErrCarNotFound = NewNotFound("Car not found")
