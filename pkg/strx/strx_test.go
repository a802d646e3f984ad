package strx

import (
	"reflect"
	"strings"
	"testing"
)

func TestBasics(t *testing.T) {
	if !IsNullOrWhiteSpace(" \t\n") || IsNullOrWhiteSpace(" a ") {
		t.Fatal("IsNullOrWhiteSpace mismatch")
	}
	if DefaultIfEmpty("  ", "x") != "x" || DefaultIfEmpty("y", "x") != "y" {
		t.Fatal("DefaultIfEmpty mismatch")
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "truncate short", got: Truncate("سلام", 10, "…"), want: "سلام"},
		{name: "truncate ellipsis", got: Truncate("hello world", 8, "..."), want: "hello..."},
		{name: "truncate tiny", got: Truncate("hello", 2, "..."), want: "he"},
		{name: "left runes", got: Left("تهران", 2), want: "ته"},
		{name: "left overflow", got: Left("ab", 5), want: "ab"},
		{name: "right runes", got: Right("تهران", 3), want: "ران"},
		{name: "reverse", got: Reverse("abc✓"), want: "✓cba"},
		{name: "join", got: Join(", ", "a", " ", "", "b"), want: "a, b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Fatalf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestCasing(t *testing.T) {
	if got := SplitCamelCase("parseHTTPResponse2x"); !reflect.DeepEqual(got, []string{"parse", "HTTP", "Response", "2", "x"}) {
		t.Fatalf("SplitCamelCase = %v", got)
	}

	tests := []struct {
		in, snake, kebab, camel, pascal string
	}{
		{in: "HelloWorld", snake: "hello_world", kebab: "hello-world", camel: "helloWorld", pascal: "HelloWorld"},
		{in: "user_id", snake: "user_id", kebab: "user-id", camel: "userId", pascal: "UserId"},
		{in: "XMLHttpRequest", snake: "xml_http_request", kebab: "xml-http-request", camel: "xmlHttpRequest", pascal: "XmlHttpRequest"},
		{in: "order line item", snake: "order_line_item", kebab: "order-line-item", camel: "orderLineItem", pascal: "OrderLineItem"},
		{in: "", snake: "", kebab: "", camel: "", pascal: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ToSnakeCase(tt.in); got != tt.snake {
				t.Errorf("ToSnakeCase = %q", got)
			}
			if got := ToKebabCase(tt.in); got != tt.kebab {
				t.Errorf("ToKebabCase = %q", got)
			}
			if got := ToCamelCase(tt.in); got != tt.camel {
				t.Errorf("ToCamelCase = %q", got)
			}
			if got := ToPascalCase(tt.in); got != tt.pascal {
				t.Errorf("ToPascalCase = %q", got)
			}
		})
	}

	if Capitalize("ali") != "Ali" || Uncapitalize("Ali") != "ali" || Capitalize("") != "" {
		t.Fatal("Capitalize mismatch")
	}
	if got := ToTitle("hello brave new world"); got != "Hello Brave New World" {
		t.Fatalf("ToTitle = %q", got)
	}
}

func TestHashes(t *testing.T) {
	tests := []struct {
		algo, in, want string
	}{
		{algo: "md5", in: "abc", want: "900150983cd24fb0d6963f7d28e17f72"},
		{algo: "sha1", in: "abc", want: "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{algo: "sha256", in: "abc", want: "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{algo: "keccak256", in: "", want: "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"},
	}
	for _, tt := range tests {
		t.Run(tt.algo, func(t *testing.T) {
			got, err := Hash(tt.algo, tt.in)
			if err != nil {
				t.Fatalf("Hash error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
	if len(SHA512Hex("abc")) != 128 {
		t.Fatal("SHA512Hex must be 128 hex chars")
	}
	if _, err := Hash("crc", "x"); err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
}

func TestPassword(t *testing.T) {
	h, err := HashPassword("p@ss")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword(h, "p@ss") || CheckPassword(h, "nope") {
		t.Fatal("CheckPassword mismatch")
	}
}

func TestBase64AndGUID(t *testing.T) {
	enc := Base64Encode("سلام")
	dec, err := Base64Decode(enc)
	if err != nil || dec != "سلام" {
		t.Fatalf("Base64Decode = %q, %v", dec, err)
	}
	if dec, err := Base64Decode("aGk"); err != nil || dec != "hi" {
		t.Fatalf("unpadded decode = %q, %v", dec, err)
	}
	if _, err := Base64Decode("@@@"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
	a, b := NewGUID(), NewGUID()
	if len(a) != 36 || a == b {
		t.Fatalf("unexpected GUIDs %s %s", a, b)
	}
}

func TestExtraction(t *testing.T) {
	text := "Call 0912-345-6789 or mail ali@example.com, bob@test.ir. See https://example.com/a?b=1. Price 12.50 and -3 #Go #تهران"

	if got := ExtractDigits("a1b22c333"); got != "122333" {
		t.Fatalf("ExtractDigits = %q", got)
	}
	if got := ExtractNumbers("x 12.50 y -3 z 7"); !reflect.DeepEqual(got, []string{"12.50", "-3", "7"}) {
		t.Fatalf("ExtractNumbers = %v", got)
	}
	if got := ExtractEmails(text); !reflect.DeepEqual(got, []string{"ali@example.com", "bob@test.ir"}) {
		t.Fatalf("ExtractEmails = %v", got)
	}
	if got := ExtractURLs(text); !reflect.DeepEqual(got, []string{"https://example.com/a?b=1"}) {
		t.Fatalf("ExtractURLs = %v", got)
	}
	if got := ExtractHashtags(text); !reflect.DeepEqual(got, []string{"Go", "تهران"}) {
		t.Fatalf("ExtractHashtags = %v", got)
	}
	if got := StripHTML("<p>Hello <b>World</b></p>\n"); got != "Hello World" {
		t.Fatalf("StripHTML = %q", got)
	}
	if got := CollapseWhitespace("  a \t b\n\nc "); got != "a b c" {
		t.Fatalf("CollapseWhitespace = %q", got)
	}
}

func TestValidators(t *testing.T) {
	if !IsEmail("a.b@c.io") || IsEmail("a@b") || IsEmail("x a@b.com") {
		t.Fatal("IsEmail mismatch")
	}
	if !IsURL("https://x.ir/path") || IsURL("ftp://x.ir") || IsURL("/relative") {
		t.Fatal("IsURL mismatch")
	}
	if !IsNumeric("-1.5") || !IsNumeric("42") || IsNumeric("1e5") || IsNumeric("") {
		t.Fatal("IsNumeric mismatch")
	}
}

func TestSlugifyAndFormat(t *testing.T) {
	if got := Slugify("  Héllo, World!  2024 "); got != "hello-world-2024" {
		t.Fatalf("Slugify = %q", got)
	}
	got := FormatWith("Hi {name}, you owe {amount} ({missing})", map[string]any{"name": "Sara", "amount": 12})
	if got != "Hi Sara, you owe 12 ({missing})" {
		t.Fatalf("FormatWith = %q", got)
	}
	if !strings.Contains(FormatWith("{a}{a}", map[string]any{"a": "x"}), "xx") {
		t.Fatal("repeated placeholder must be replaced each time")
	}
}
