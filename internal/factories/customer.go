package factories

import (
	"math/rand"

	"github.com/chrisdamba/foodcloud/internal/models"
	"github.com/jaswdr/faker"
)

// New returns a faker seeded for reproducible demo data.
func New(seed int64) faker.Faker {
	return faker.NewWithSeed(rand.NewSource(seed))
}

type CustomerFactory struct {
	fake faker.Faker
}

func NewCustomerFactory(f faker.Faker) *CustomerFactory {
	return &CustomerFactory{fake: f}
}

func (cf *CustomerFactory) CreateCustomer() models.CustomerInfo {
	addr := cf.fake.Address()
	return models.CustomerInfo{
		Name:    cf.fake.Person().Name(),
		Phone:   cf.fake.Phone().Number(),
		Address: addr.StreetAddress() + ", " + addr.City(),
	}
}
