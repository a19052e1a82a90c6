package target

import (
	"errors"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	c := NewCanonicalizer()

	tests := []struct {
		host      string
		want      string
		subdomain string
		suffix    string
	}{
		{host: "example.com", want: "example.com", suffix: "com"},
		{host: "www.example.com", want: "example.com", suffix: "com"},
		{host: "WWW.Example.COM.", want: "example.com", suffix: "com"},
		{host: "login.secure.example.com", want: "example.com", subdomain: "login.secure", suffix: "com"},
		{host: "shop.example.co.uk", want: "example.co.uk", subdomain: "shop", suffix: "co.uk"},
		{host: "www.bbc.co.uk", want: "bbc.co.uk", suffix: "co.uk"},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			d, err := c.Canonicalize(tt.host)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if d.Name() != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, d.Name())
			}
			if d.Subdomain != tt.subdomain {
				t.Errorf("Expected subdomain %q, got %q", tt.subdomain, d.Subdomain)
			}
			if d.Suffix != tt.suffix {
				t.Errorf("Expected suffix %q, got %q", tt.suffix, d.Suffix)
			}
		})
	}
}

func TestCanonicalize_Failures(t *testing.T) {
	c := NewCanonicalizer()

	hosts := []string{"", "192.168.1.1", "co.uk", "example.notarealtld", "com"}
	for _, host := range hosts {
		if _, err := c.Canonicalize(host); !errors.Is(err, ErrDomainExtraction) {
			t.Errorf("Expected ErrDomainExtraction for %q, got %v", host, err)
		}
	}
}

func TestCanonicalize_Idempotent(t *testing.T) {
	c := NewCanonicalizer()

	hosts := []string{"example.com", "www.example.com", "a.b.example.co.uk", "news.bbc.co.uk"}
	for _, host := range hosts {
		first, err := c.Canonicalize(host)
		if err != nil {
			t.Fatalf("Canonicalize(%q) failed: %v", host, err)
		}
		second, err := c.Canonicalize(first.Name())
		if err != nil {
			t.Fatalf("Canonicalize(%q) failed: %v", first.Name(), err)
		}
		if first.Name() != second.Name() {
			t.Errorf("Expected idempotent result for %q: %s then %s", host, first.Name(), second.Name())
		}
	}
}

func TestCanonicalize_StableAcrossWWWAndPath(t *testing.T) {
	c := NewCanonicalizer()

	inputs := []string{
		"example.com",
		"www.example.com",
		"http://www.example.com/login",
		"https://example.com/a/b?c=d",
	}

	var names []string
	for _, in := range inputs {
		u, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q) failed: %v", in, err)
		}
		d, err := c.FromURL(u)
		if err != nil {
			t.Fatalf("FromURL(%q) failed: %v", in, err)
		}
		names = append(names, d.Name())
	}

	for _, name := range names {
		if name != "example.com" {
			t.Errorf("Expected example.com for every input, got %v", names)
			break
		}
	}
}

func TestCanonicalize_WithoutStripWWW(t *testing.T) {
	c := &Canonicalizer{StripWWW: false}

	d, err := c.Canonicalize("www.example.com")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if d.Subdomain != "www" {
		t.Errorf("Expected www subdomain to be kept, got %q", d.Subdomain)
	}
	if d.Name() != "example.com" {
		t.Errorf("Expected example.com, got %s", d.Name())
	}
}
