package submission_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"listwise/internal/api"
	"listwise/internal/listing"
	"listwise/internal/logging"
	"listwise/internal/services"
	"listwise/internal/submission"
	"listwise/internal/testsupport"
	"listwise/internal/wizard"
)

type fakeListings struct {
	created  []listing.Payload
	updated  map[string]listing.Payload
	id       string
	failWith error
}

func (f *fakeListings) Get(context.Context, string) (listing.Draft, error) {
	return listing.Draft{}, errors.New("not used")
}

func (f *fakeListings) Create(_ context.Context, p listing.Payload) (api.Result, error) {
	if f.failWith != nil {
		return api.Result{}, f.failWith
	}
	f.created = append(f.created, p)
	return api.Result{ID: f.id}, nil
}

func (f *fakeListings) Update(_ context.Context, id string, p listing.Payload) (api.Result, error) {
	if f.failWith != nil {
		return api.Result{}, f.failWith
	}
	if f.updated == nil {
		f.updated = map[string]listing.Payload{}
	}
	f.updated[id] = p
	return api.Result{ID: id}, nil
}

var review = wizard.State{Active: wizard.StepReview}

func readyDraft(t *testing.T, extra ...listing.Event) listing.Draft {
	t.Helper()
	events := append([]listing.Event{
		listing.SetField{Key: "name", Value: "Garden house"},
		listing.SetField{Key: "description", Value: "Three rooms with a garden"},
		listing.SetField{Key: "propertyType", Value: "house"},
		listing.SetField{Key: "bedrooms", Value: "3"},
		listing.SetField{Key: "bathrooms", Value: "2"},
		listing.SetField{Key: "totalArea", Value: "1800"},
		listing.SetField{Key: "address", Value: "Bhaktapur"},
		listing.SetLocation{Latitude: 27.671, Longitude: 85.429},
		listing.SetField{Key: "regularPrice", Value: "1000"},
		listing.AppendImages{URLs: []string{"data:image/jpeg;base64,AAAA"}},
	}, extra...)
	d, err := listing.Rules{}.ApplyAll(listing.New(), events...)
	if err != nil {
		t.Fatalf("build draft: %v", err)
	}
	return d
}

func TestSubmitCreatesListing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	fake := &fakeListings{id: "665f1c2e9b"}
	coord := submission.New(fake, cfg, logging.NewNop())

	out, err := coord.Submit(context.Background(), submission.Request{State: review, Draft: readyDraft(t)})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if out.ListingID != "665f1c2e9b" || out.Path != "/listing/665f1c2e9b" || !out.Created {
		t.Fatalf("unexpected outcome %#v", out)
	}
	if out.Status != listing.StatusActive {
		t.Fatalf("expected active status for user role, got %q", out.Status)
	}
	if len(fake.created) != 1 {
		t.Fatalf("expected one create call, got %d", len(fake.created))
	}
	sent := fake.created[0]
	if sent.RegularPrice != 1000 || sent.Bedrooms != 3 || sent.UserRef != "user-test" {
		t.Fatalf("unexpected payload %#v", sent)
	}
}

func TestSubmitAsManagerSendsDraftStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithRole("manager"))
	fake := &fakeListings{id: "x1"}
	coord := submission.New(fake, cfg, logging.NewNop())

	out, err := coord.Submit(context.Background(), submission.Request{State: review, Draft: readyDraft(t)})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if out.Status != listing.StatusDraft || fake.created[0].Status != listing.StatusDraft {
		t.Fatalf("expected draft status, got %q", out.Status)
	}
}

func TestSubmitRejectsDiscountAboveRegular(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	fake := &fakeListings{id: "never"}
	coord := submission.New(fake, cfg, logging.NewNop())

	d := readyDraft(t,
		listing.SetField{Key: "offer", Value: "true"},
		listing.SetField{Key: "discountPrice", Value: "1200"},
	)
	_, err := coord.Submit(context.Background(), submission.Request{State: review, Draft: d})
	if !errors.Is(err, services.ErrStepValidation) {
		t.Fatalf("expected step validation error, got %v", err)
	}
	if err.Error() != "discount price must be lower than regular price" {
		t.Fatalf("unexpected reason %q", err.Error())
	}
	if len(fake.created) != 0 {
		t.Fatal("expected no network call")
	}
}

func TestSubmitRejectsNegativeDepositBeforeContract(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	fake := &fakeListings{id: "never"}
	coord := submission.New(fake, cfg, logging.NewNop())

	d := readyDraft(t, listing.SetField{Key: "deposit", Value: "-5"})
	_, err := coord.Submit(context.Background(), submission.Request{State: review, Draft: d})
	if !errors.Is(err, services.ErrStepValidation) || errors.Is(err, services.ErrSubmission) {
		t.Fatalf("expected step validation error only, got %v", err)
	}
	if len(fake.created) != 0 {
		t.Fatal("expected no network call")
	}
}

func TestSubmitDropsDiscountWithoutOffer(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	fake := &fakeListings{id: "x2"}
	coord := submission.New(fake, cfg, logging.NewNop())

	d := readyDraft(t, listing.SetField{Key: "discountPrice", Value: "900"})
	if _, err := coord.Submit(context.Background(), submission.Request{State: review, Draft: d}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if fake.created[0].DiscountPrice != 0 {
		t.Fatalf("expected discount zeroed, got %v", fake.created[0].DiscountPrice)
	}
}

func TestSubmitRequiresReviewStep(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	coord := submission.New(&fakeListings{}, cfg, logging.NewNop())
	_, err := coord.Submit(context.Background(), submission.Request{
		State: wizard.State{Active: wizard.StepPricingMedia},
		Draft: readyDraft(t),
	})
	if !errors.Is(err, wizard.ErrNotAtReview) {
		t.Fatalf("expected ErrNotAtReview, got %v", err)
	}
}

func TestSubmitUpdateUsesEditLimits(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	fake := &fakeListings{}
	coord := submission.New(fake, cfg, logging.NewNop())

	six := readyDraft(t, listing.AppendImages{URLs: []string{"b", "c", "d", "e", "f"}})
	_, err := coord.Submit(context.Background(), submission.Request{State: review, Draft: six, ListingID: "abc"})
	if err == nil || !strings.Contains(err.Error(), "at most 5 images") {
		t.Fatalf("expected edit cap to block, got %v", err)
	}

	five := readyDraft(t, listing.AppendImages{URLs: []string{"b", "c", "d", "e"}})
	out, err := coord.Submit(context.Background(), submission.Request{State: review, Draft: five, ListingID: "abc"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if out.Created || out.Path != "/listing/abc" {
		t.Fatalf("unexpected outcome %#v", out)
	}
	if _, ok := fake.updated["abc"]; !ok {
		t.Fatal("expected update call for abc")
	}
}

func TestSubmitAtConfiguredImageCap(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Media.MaxImages = 8
	fake := &fakeListings{id: "new1"}
	coord := submission.New(fake, cfg, logging.NewNop())

	eight := readyDraft(t, listing.AppendImages{URLs: []string{"b", "c", "d", "e", "f", "g", "h"}})
	if _, err := coord.Submit(context.Background(), submission.Request{State: review, Draft: eight}); err != nil {
		t.Fatalf("expected submit at the configured cap to pass, got %v", err)
	}
	if len(fake.created) != 1 || len(fake.created[0].ImageURLs) != 8 {
		t.Fatalf("expected one create with eight images, got %#v", fake.created)
	}

	nine := readyDraft(t, listing.AppendImages{URLs: []string{"b", "c", "d", "e", "f", "g", "h", "i"}})
	_, err := coord.Submit(context.Background(), submission.Request{State: review, Draft: nine})
	if !errors.Is(err, services.ErrStepValidation) || !strings.Contains(err.Error(), "at most 8 images") {
		t.Fatalf("expected step validation above the cap, got %v", err)
	}
	if len(fake.created) != 1 {
		t.Fatal("expected nothing sent above the cap")
	}
}

func TestSubmitSurfacesServerMessage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	fake := &fakeListings{failWith: services.Wrap(services.ErrSubmission, "api", "create listing", "Listing name already taken", nil)}
	coord := submission.New(fake, cfg, logging.NewNop())

	d := readyDraft(t)
	_, err := coord.Submit(context.Background(), submission.Request{State: review, Draft: d})
	if !errors.Is(err, services.ErrSubmission) {
		t.Fatalf("expected submission error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Listing name already taken") {
		t.Fatalf("expected server message, got %v", err)
	}
	if d.Name != "Garden house" {
		t.Fatal("draft changed after failed submission")
	}
}

func TestSubmitWrapsTransportErrors(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	fake := &fakeListings{failWith: errors.New("connection reset")}
	coord := submission.New(fake, cfg, logging.NewNop())

	_, err := coord.Submit(context.Background(), submission.Request{State: review, Draft: readyDraft(t)})
	if !errors.Is(err, services.ErrSubmission) {
		t.Fatalf("expected submission error, got %v", err)
	}
}
