package utils

import "fmt"

type Credential struct {
	Username string
	Password string
	Hash     string
}

func NewCredentialsClusterBomb(users []string, passwords []string) (out []Credential) {
	if len(passwords) == 0 {
		passwords = append(passwords, "")
	}
	for _, u := range users {
		for _, p := range passwords {
			out = append(out, Credential{Username: u, Password: p})
		}
	}
	return
}

func NewCredentialsNTLM(users []string, hash string) (out []Credential) {
	for _, u := range users {
		out = append(out, Credential{Username: u, Hash: hash})
	}
	return
}

// NewCredentialsDispacher turns the raw CLI values, each possibly a file
// of values, into the credential set to try.
func NewCredentialsDispacher(users, passwords, ntlm string) []Credential {
	if ntlm != "" {
		return NewCredentialsNTLM(ExtractLinesFromFileOrString(users), ntlm)
	}
	return NewCredentialsClusterBomb(ExtractLinesFromFileOrString(users), ExtractLinesFromFileOrString(passwords))
}

func (c *Credential) String() string {
	if c.Hash != "" {
		return fmt.Sprintf("%s:%s", c.Username, c.Hash)
	}
	return fmt.Sprintf("%s:%s", c.Username, c.Password)
}

func (c *Credential) StringWithDomain(domain string) string {
	if c.Hash != "" {
		return fmt.Sprintf("%s\\%s:%s", domain, c.Username, c.Hash)
	}
	return fmt.Sprintf("%s\\%s:%s", domain, c.Username, c.Password)
}
