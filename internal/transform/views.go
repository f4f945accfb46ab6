package transform

import "strings"

// Default values substituted for missing backend fields.
const (
	DefaultStatus        = "active"
	DefaultPendingStatus = "pending"
	DefaultCurrency      = "KES"
)

// SmartBin is the dashboard view of a smart bin reading.
type SmartBin struct {
	ID           any     `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	Location     string  `json:"location" yaml:"location"`
	Latitude     float64 `json:"latitude" yaml:"latitude"`
	Longitude    float64 `json:"longitude" yaml:"longitude"`
	FillLevel    float64 `json:"fillLevel" yaml:"fillLevel"`
	BatteryLevel float64 `json:"batteryLevel" yaml:"batteryLevel"`
	Status       string  `json:"status" yaml:"status"`
	BinType      string  `json:"binType" yaml:"binType"`
	Capacity     float64 `json:"capacity" yaml:"capacity"`
	LastEmptied  string  `json:"lastEmptied" yaml:"lastEmptied"`
	LastUpdated  string  `json:"lastUpdated" yaml:"lastUpdated"`
	CreatedAt    string  `json:"createdAt" yaml:"createdAt"`
}

func smartBin(r Record) any {
	return SmartBin{
		ID:           r.Raw("id"),
		Name:         r.String("", "name", "bin_name"),
		Location:     r.String("", "location", "address"),
		Latitude:     r.Float(0, "latitude", "lat"),
		Longitude:    r.Float(0, "longitude", "lng", "lon"),
		FillLevel:    r.Float(0, "fill_level"),
		BatteryLevel: r.Float(0, "battery_level"),
		Status:       r.String(DefaultStatus, "status"),
		BinType:      r.String("", "bin_type", "waste_type"),
		Capacity:     r.Float(0, "capacity"),
		LastEmptied:  r.String("", "last_emptied", "last_collection"),
		LastUpdated:  r.String("", "last_updated", "updated_at"),
		CreatedAt:    r.String("", "created_at"),
	}
}

// User is the dashboard view of an account.
type User struct {
	ID         any    `json:"id" yaml:"id"`
	Username   string `json:"username" yaml:"username"`
	Email      string `json:"email" yaml:"email"`
	FirstName  string `json:"firstName" yaml:"firstName"`
	LastName   string `json:"lastName" yaml:"lastName"`
	FullName   string `json:"fullName" yaml:"fullName"`
	Phone      string `json:"phone" yaml:"phone"`
	Role       string `json:"role" yaml:"role"`
	Status     string `json:"status" yaml:"status"`
	IsActive   bool   `json:"isActive" yaml:"isActive"`
	DateJoined string `json:"dateJoined" yaml:"dateJoined"`
	LastLogin  string `json:"lastLogin" yaml:"lastLogin"`
}

func user(r Record) any {
	first := r.String("", "first_name")
	last := r.String("", "last_name")
	fullName := strings.TrimSpace(first + " " + last)
	if fullName == "" {
		fullName = r.String("", "full_name", "name", "username")
	}

	isActive := r.Bool(true, "is_active")
	status := r.String("", "status")
	if status == "" {
		status = DefaultStatus
		if !isActive {
			status = "inactive"
		}
	}

	return User{
		ID:         r.Raw("id"),
		Username:   r.String("", "username"),
		Email:      r.String("", "email"),
		FirstName:  first,
		LastName:   last,
		FullName:   fullName,
		Phone:      r.String("", "phone_number", "phone"),
		Role:       r.String("customer", "role", "user_type"),
		Status:     status,
		IsActive:   isActive,
		DateJoined: r.String("", "date_joined", "created_at"),
		LastLogin:  r.String("", "last_login"),
	}
}

// Provider is the dashboard view of a service provider company.
type Provider struct {
	ID            any      `json:"id" yaml:"id"`
	CompanyName   string   `json:"companyName" yaml:"companyName"`
	ContactPerson string   `json:"contactPerson" yaml:"contactPerson"`
	Email         string   `json:"email" yaml:"email"`
	Phone         string   `json:"phone" yaml:"phone"`
	ServiceAreas  []string `json:"serviceAreas" yaml:"serviceAreas"`
	Rating        float64  `json:"rating" yaml:"rating"`
	TotalJobs     int64    `json:"totalJobs" yaml:"totalJobs"`
	Status        string   `json:"status" yaml:"status"`
	Verified      bool     `json:"verified" yaml:"verified"`
	CreatedAt     string   `json:"createdAt" yaml:"createdAt"`
}

func provider(r Record) any {
	return Provider{
		ID:            r.Raw("id"),
		CompanyName:   r.String("", "company_name", "business_name", "name"),
		ContactPerson: r.String("", "contact_person"),
		Email:         r.String("", "email"),
		Phone:         r.String("", "phone_number", "phone"),
		ServiceAreas:  r.Strings("service_areas"),
		Rating:        r.Float(0, "rating", "average_rating"),
		TotalJobs:     r.Int(0, "total_jobs", "jobs_count"),
		Status:        r.String(DefaultStatus, "status"),
		Verified:      r.Bool(false, "is_verified", "verified"),
		CreatedAt:     r.String("", "created_at"),
	}
}

// Driver is the dashboard view of a collection driver.
type Driver struct {
	ID              any     `json:"id" yaml:"id"`
	Name            string  `json:"name" yaml:"name"`
	Phone           string  `json:"phone" yaml:"phone"`
	LicenseNumber   string  `json:"licenseNumber" yaml:"licenseNumber"`
	VehicleID       any     `json:"vehicleId" yaml:"vehicleId"`
	ProviderID      any     `json:"providerId" yaml:"providerId"`
	Status          string  `json:"status" yaml:"status"`
	Rating          float64 `json:"rating" yaml:"rating"`
	CompletedJobs   int64   `json:"completedJobs" yaml:"completedJobs"`
	CurrentLocation string  `json:"currentLocation" yaml:"currentLocation"`
	CreatedAt       string  `json:"createdAt" yaml:"createdAt"`
}

func driver(r Record) any {
	name := r.String("", "name", "full_name")
	if name == "" {
		if u := r.Nested("user"); u != nil {
			name = strings.TrimSpace(u.String("", "first_name") + " " + u.String("", "last_name"))
		}
	}

	return Driver{
		ID:              r.Raw("id"),
		Name:            name,
		Phone:           r.String("", "phone_number", "phone"),
		LicenseNumber:   r.String("", "license_number"),
		VehicleID:       r.Raw("vehicle_id", "vehicle"),
		ProviderID:      r.Raw("provider_id", "provider"),
		Status:          r.String(DefaultStatus, "status"),
		Rating:          r.Float(0, "rating"),
		CompletedJobs:   r.Int(0, "completed_jobs"),
		CurrentLocation: r.String("", "current_location"),
		CreatedAt:       r.String("", "created_at"),
	}
}

// Job is the dashboard view of a pickup job or a customer request; both
// backend resources share this shape.
type Job struct {
	ID            any     `json:"id" yaml:"id"`
	CustomerID    any     `json:"customerId" yaml:"customerId"`
	CustomerName  string  `json:"customerName" yaml:"customerName"`
	ProviderID    any     `json:"providerId" yaml:"providerId"`
	DriverID      any     `json:"driverId" yaml:"driverId"`
	PickupAddress string  `json:"pickupAddress" yaml:"pickupAddress"`
	WasteType     string  `json:"wasteType" yaml:"wasteType"`
	Quantity      float64 `json:"quantity" yaml:"quantity"`
	Status        string  `json:"status" yaml:"status"`
	ScheduledDate string  `json:"scheduledDate" yaml:"scheduledDate"`
	CompletedAt   string  `json:"completedAt" yaml:"completedAt"`
	Price         float64 `json:"price" yaml:"price"`
	CreatedAt     string  `json:"createdAt" yaml:"createdAt"`
}

func job(r Record) any {
	return Job{
		ID:            r.Raw("id"),
		CustomerID:    r.Raw("customer_id", "customer"),
		CustomerName:  r.String("", "customer_name"),
		ProviderID:    r.Raw("provider_id", "provider"),
		DriverID:      r.Raw("driver_id", "driver"),
		PickupAddress: r.String("", "pickup_address", "address", "location"),
		WasteType:     r.String("", "waste_type"),
		Quantity:      r.Float(0, "quantity", "weight"),
		Status:        r.String(DefaultPendingStatus, "status"),
		ScheduledDate: r.String("", "scheduled_date", "pickup_date"),
		CompletedAt:   r.String("", "completed_at"),
		Price:         r.Float(0, "price", "amount", "total_cost"),
		CreatedAt:     r.String("", "created_at"),
	}
}

// Payment is the dashboard view of a payment transaction.
type Payment struct {
	ID        any     `json:"id" yaml:"id"`
	JobID     any     `json:"jobId" yaml:"jobId"`
	Amount    float64 `json:"amount" yaml:"amount"`
	Currency  string  `json:"currency" yaml:"currency"`
	Method    string  `json:"method" yaml:"method"`
	Status    string  `json:"status" yaml:"status"`
	Reference string  `json:"reference" yaml:"reference"`
	PaidAt    string  `json:"paidAt" yaml:"paidAt"`
	CreatedAt string  `json:"createdAt" yaml:"createdAt"`
}

func payment(r Record) any {
	return Payment{
		ID:        r.Raw("id"),
		JobID:     r.Raw("job_id", "job", "request_id"),
		Amount:    r.Float(0, "amount"),
		Currency:  r.String(DefaultCurrency, "currency"),
		Method:    r.String("", "payment_method", "method"),
		Status:    r.String(DefaultPendingStatus, "status"),
		Reference: r.String("", "transaction_id", "reference"),
		PaidAt:    r.String("", "paid_at"),
		CreatedAt: r.String("", "created_at"),
	}
}

// Vehicle is the dashboard view of a collection truck.
type Vehicle struct {
	ID          any     `json:"id" yaml:"id"`
	PlateNumber string  `json:"plateNumber" yaml:"plateNumber"`
	VehicleType string  `json:"vehicleType" yaml:"vehicleType"`
	Capacity    float64 `json:"capacity" yaml:"capacity"`
	ProviderID  any     `json:"providerId" yaml:"providerId"`
	DriverID    any     `json:"driverId" yaml:"driverId"`
	Status      string  `json:"status" yaml:"status"`
	CreatedAt   string  `json:"createdAt" yaml:"createdAt"`
}

func vehicle(r Record) any {
	return Vehicle{
		ID:          r.Raw("id"),
		PlateNumber: r.String("", "plate_number", "registration_number"),
		VehicleType: r.String("", "vehicle_type", "type"),
		Capacity:    r.Float(0, "capacity"),
		ProviderID:  r.Raw("provider_id", "provider"),
		DriverID:    r.Raw("driver_id", "driver"),
		Status:      r.String(DefaultStatus, "status"),
		CreatedAt:   r.String("", "created_at"),
	}
}

// Notification is the dashboard view of a notification.
type Notification struct {
	ID        any    `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Message   string `json:"message" yaml:"message"`
	Type      string `json:"type" yaml:"type"`
	Read      bool   `json:"read" yaml:"read"`
	CreatedAt string `json:"createdAt" yaml:"createdAt"`
}

func notification(r Record) any {
	return Notification{
		ID:        r.Raw("id"),
		Title:     r.String("", "title"),
		Message:   r.String("", "message", "body"),
		Type:      r.String("info", "notification_type", "type"),
		Read:      r.Bool(false, "is_read", "read"),
		CreatedAt: r.String("", "created_at"),
	}
}

// Overview is the analytics dashboard view. The backend returns it as a single
// object.
type Overview struct {
	TotalUsers       int64          `json:"totalUsers" yaml:"totalUsers"`
	TotalProviders   int64          `json:"totalProviders" yaml:"totalProviders"`
	TotalDrivers     int64          `json:"totalDrivers" yaml:"totalDrivers"`
	TotalJobs        int64          `json:"totalJobs" yaml:"totalJobs"`
	ActiveJobs       int64          `json:"activeJobs" yaml:"activeJobs"`
	CompletedJobs    int64          `json:"completedJobs" yaml:"completedJobs"`
	TotalRevenue     float64        `json:"totalRevenue" yaml:"totalRevenue"`
	TotalBins        int64          `json:"totalBins" yaml:"totalBins"`
	ActiveBins       int64          `json:"activeBins" yaml:"activeBins"`
	FullBins         int64          `json:"fullBins" yaml:"fullBins"`
	AverageFillLevel float64        `json:"averageFillLevel" yaml:"averageFillLevel"`
	JobsByStatus     map[string]any `json:"jobsByStatus" yaml:"jobsByStatus"`
	RevenueTrend     []any          `json:"revenueTrend" yaml:"revenueTrend"`
}

func analytics(r Record) any {
	return Overview{
		TotalUsers:       r.Int(0, "total_users"),
		TotalProviders:   r.Int(0, "total_providers"),
		TotalDrivers:     r.Int(0, "total_drivers"),
		TotalJobs:        r.Int(0, "total_jobs", "total_requests"),
		ActiveJobs:       r.Int(0, "active_jobs", "pending_jobs"),
		CompletedJobs:    r.Int(0, "completed_jobs"),
		TotalRevenue:     r.Float(0, "total_revenue", "revenue"),
		TotalBins:        r.Int(0, "total_bins"),
		ActiveBins:       r.Int(0, "active_bins"),
		FullBins:         r.Int(0, "full_bins"),
		AverageFillLevel: r.Float(0, "average_fill_level", "avg_fill_level"),
		JobsByStatus:     r.Object("jobs_by_status"),
		RevenueTrend:     r.List("revenue_trend", "monthly_revenue"),
	}
}
