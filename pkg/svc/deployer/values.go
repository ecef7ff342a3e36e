package deployer

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/storekeep/storekeep/pkg/apis/store/v1alpha1"
)

const passwordBytes = 16

// Values is the full desired-state configuration for one store release. It is
// rendered fresh for every install and discarded afterwards; in particular
// the database credentials are regenerated on every render and must never be
// read back as the source of truth for an existing store.
type Values struct {
	Namespace   string           `json:"namespace"`
	Store       StoreValues      `json:"store"`
	WordPress   WordPressValues  `json:"wordpress"`
	WooCommerce WooCommerce      `json:"woocommerce"`
	MySQL       MySQLValues      `json:"mysql"`
	Service     ServiceValues    `json:"service"`
	Ingress     IngressValues    `json:"ingress"`
	Resources   ResourceSettings `json:"resources"`
}

// StoreValues carries the routing configuration for the storefront.
type StoreValues struct {
	Domain string `json:"domain"`
}

// WordPressValues configures the storefront application workload.
type WordPressValues struct {
	Image    ImageValues   `json:"image"`
	Replicas int           `json:"replicas"`
	Storage  StorageValues `json:"storage"`
	Admin    AdminValues   `json:"admin"`
}

// ImageValues configures image pull behavior.
type ImageValues struct {
	PullPolicy string `json:"pullPolicy"`
}

// StorageValues configures persistent volume sizing.
type StorageValues struct {
	Size         string `json:"size"`
	StorageClass string `json:"storageClass"`
}

// AdminValues carries the storefront admin account.
type AdminValues struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// WooCommerce configures the commerce metadata and the seed catalog entry.
type WooCommerce struct {
	Store         CommerceStore `json:"store"`
	Currency      string        `json:"currency"`
	SampleProduct SampleProduct `json:"sampleProduct"`
}

// CommerceStore is the storefront display metadata.
type CommerceStore struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Postcode string `json:"postcode"`
}

// SampleProduct is the seed catalog entry created on first boot.
type SampleProduct struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	ShortDescription string `json:"shortDescription"`
	Price            string `json:"price"`
	Stock            int    `json:"stock"`
}

// MySQLValues configures the per-store database.
type MySQLValues struct {
	Database    string           `json:"database"`
	Credentials MySQLCredentials `json:"credentials"`
	Storage     StorageValues    `json:"storage"`
}

// MySQLCredentials are generated fresh per render from a cryptographically
// strong random source.
type MySQLCredentials struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	RootPassword string `json:"rootPassword"`
}

// ServiceValues configures the in-cluster service.
type ServiceValues struct {
	Type string `json:"type"`
	Port int    `json:"port"`
}

// IngressValues toggles ingress creation.
type IngressValues struct {
	Enabled bool `json:"enabled"`
}

// ResourceSettings carries requests and limits for the workload.
type ResourceSettings struct {
	Requests ResourceList `json:"requests"`
	Limits   ResourceList `json:"limits"`
}

// ResourceList is a memory/cpu pair.
type ResourceList struct {
	Memory string `json:"memory"`
	CPU    string `json:"cpu"`
}

// PasswordFunc produces one random password per call.
type PasswordFunc func() (string, error)

// GeneratePassword returns a hex-encoded password from crypto/rand.
func GeneratePassword() (string, error) {
	buf := make([]byte, passwordBytes)

	_, err := rand.Read(buf)
	if err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// Render produces the desired-state values for a store. It is pure apart
// from password generation: rendering the same store twice yields identical
// output except for the freshly generated database credentials.
func Render(store v1alpha1.Store, newPassword PasswordFunc) (*Values, error) {
	if newPassword == nil {
		newPassword = GeneratePassword
	}

	dbPassword, err := newPassword()
	if err != nil {
		return nil, err
	}

	rootPassword, err := newPassword()
	if err != nil {
		return nil, err
	}

	return &Values{
		Namespace: store.Namespace,
		Store:     StoreValues{Domain: store.Domain},
		WordPress: WordPressValues{
			Image:    ImageValues{PullPolicy: "IfNotPresent"},
			Replicas: 1,
			Storage: StorageValues{
				Size:         "5Gi",
				StorageClass: "local-path",
			},
			Admin: AdminValues{
				Username: store.AdminUsername,
				Email:    store.AdminEmail,
				Password: store.AdminPassword,
			},
		},
		WooCommerce: WooCommerce{
			Store: CommerceStore{
				Name:     store.StoreName,
				Address:  "123 Main Street",
				City:     "New York",
				Country:  "US:NY",
				Postcode: "10001",
			},
			Currency: "USD",
			SampleProduct: SampleProduct{
				Name:             "Sample Product",
				Description:      "Sample product for your store",
				ShortDescription: "Sample product",
				Price:            "29.99",
				Stock:            100,
			},
		},
		MySQL: MySQLValues{
			Database: "wordpress_" + store.ID,
			Credentials: MySQLCredentials{
				Username:     "wp_" + store.ID,
				Password:     dbPassword,
				RootPassword: rootPassword,
			},
			Storage: StorageValues{
				Size:         "10Gi",
				StorageClass: "local-path",
			},
		},
		Service: ServiceValues{
			Type: "ClusterIP",
			Port: 80,
		},
		Ingress:   IngressValues{Enabled: true},
		Resources: ResourceSettings{
			Requests: ResourceList{Memory: "256Mi", CPU: "250m"},
			Limits:   ResourceList{Memory: "512Mi", CPU: "500m"},
		},
	}, nil
}
